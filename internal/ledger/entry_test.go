package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
)

func TestType_RoundTrip(t *testing.T) {
	for _, typ := range []ledger.Type{ledger.TypeIncome, ledger.TypeExpense} {
		got, err := ledger.ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}

func TestType_WireValues(t *testing.T) {
	assert.Equal(t, ledger.TypeIncome, ledger.Type(0))
	assert.Equal(t, ledger.TypeExpense, ledger.Type(1))
	assert.False(t, ledger.Type(2).Valid())
	assert.Equal(t, "Type(2)", ledger.Type(2).String())
}

func TestParseType_Unknown(t *testing.T) {
	_, err := ledger.ParseType("TRANSFER")
	require.ErrorIs(t, err, ledger.ErrInvalidType)
}

func TestSigned(t *testing.T) {
	assert.Equal(t, int64(100), ledger.Signed(ledger.TypeIncome, 100))
	assert.Equal(t, int64(-100), ledger.Signed(ledger.TypeExpense, 100))
}
