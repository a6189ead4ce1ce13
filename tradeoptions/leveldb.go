package tradeoptions

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/syndtr/goleveldb/leveldb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// storedEnvelope wraps the persisted value with an explicit version so the
// on-disk contract can evolve without guessing at blob shapes.
type storedEnvelope struct {
	Version int          `json:"version"`
	Options TradeOptions `json:"options"`
}

// LevelDBPersistence stores trade options in a goleveldb database.
type LevelDBPersistence struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a database at path.
func OpenLevelDB(path string) (*LevelDBPersistence, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open trade options database: %w", err)
	}
	return &LevelDBPersistence{db: db}, nil
}

// NewLevelDBPersistence wraps an already-open database. The caller retains
// ownership of the handle.
func NewLevelDBPersistence(db *leveldb.DB) *LevelDBPersistence {
	return &LevelDBPersistence{db: db}
}

// Load reads and decodes the stored value for a key. A missing record returns
// (nil, nil); a corrupt or version-mismatched record returns an error, which
// the store absorbs by falling back to the default state.
func (p *LevelDBPersistence) Load(key Key) (*TradeOptions, error) {
	data, err := p.db.Get([]byte(key.String()), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trade options: %w", err)
	}

	var envelope storedEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode trade options: %w", err)
	}
	if envelope.Version != envelopeVersion {
		return nil, fmt.Errorf("unsupported trade options version %d", envelope.Version)
	}

	return &envelope.Options, nil
}

// Save encodes and writes the value for a key.
func (p *LevelDBPersistence) Save(key Key, value TradeOptions) error {
	data, err := json.Marshal(storedEnvelope{Version: envelopeVersion, Options: value})
	if err != nil {
		return fmt.Errorf("encode trade options: %w", err)
	}
	if err := p.db.Put([]byte(key.String()), data, nil); err != nil {
		return fmt.Errorf("write trade options: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (p *LevelDBPersistence) Close() error {
	return p.db.Close()
}
