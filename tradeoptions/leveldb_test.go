package tradeoptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/tradestate/tradestate-client-go/engine"
)

func newMemLevelDB(t *testing.T) *LevelDBPersistence {
	t.Helper()

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewLevelDBPersistence(db)
}

func TestLevelDBPersistence(t *testing.T) {
	key := Key{ChainID: 42161, Account: "leveldb-test"}

	t.Run("Missing Record Is Not An Error", func(t *testing.T) {
		p := newMemLevelDB(t)

		value, err := p.Load(key)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("Round Trip", func(t *testing.T) {
		p := newMemLevelDB(t)

		stored := Default()
		stored.TradeType = engine.TradeTypeShort
		stored.FromTokenAddress = strangerAddress
		stored.MarketPins[solAddress] = MarketPin{ShortMarketAddress: solMarketBAddress}
		require.NoError(t, p.Save(key, stored))

		loaded, err := p.Load(key)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.True(t, stored.Equal(*loaded))
	})

	t.Run("Keys Are Isolated", func(t *testing.T) {
		p := newMemLevelDB(t)

		stored := Default()
		stored.TradeType = engine.TradeTypeSwap
		require.NoError(t, p.Save(key, stored))

		other, err := p.Load(Key{ChainID: 1, Account: "leveldb-test"})
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("Corrupt Record Is An Error", func(t *testing.T) {
		db, err := leveldb.Open(storage.NewMemStorage(), nil)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		require.NoError(t, db.Put([]byte(key.String()), []byte("{not json"), nil))

		p := NewLevelDBPersistence(db)
		_, err = p.Load(key)
		assert.Error(t, err)
	})

	t.Run("Unsupported Version Is An Error", func(t *testing.T) {
		db, err := leveldb.Open(storage.NewMemStorage(), nil)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		require.NoError(t, db.Put([]byte(key.String()), []byte(`{"version":99,"options":{}}`), nil))

		p := NewLevelDBPersistence(db)
		_, err = p.Load(key)
		assert.Error(t, err)
	})

	t.Run("Backs A Store End To End", func(t *testing.T) {
		p := newMemLevelDB(t)

		first := newTestStore(t, p)
		require.True(t, first.SetTradeType(engine.TradeTypeSwap))

		// A second store over the same database sees the persisted value.
		second := newTestStore(t, p)
		assert.Equal(t, engine.TradeTypeSwap, second.Current().TradeType)
	})
}
