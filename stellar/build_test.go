package stellar_test

import (
	"testing"

	"github.com/sorobankit/ttlkeeper/stellar"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExtendTransaction(t *testing.T) {
	kp := keypair.MustRandom()
	account := txnbuild.NewSimpleAccount(kp.Address(), 41)

	contractID, contractHash := testContractID(t)
	instanceKey, err := stellar.ContractInstanceKey(contractID)
	require.NoError(t, err)
	keys := []xdr.LedgerKey{instanceKey, stellar.ContractCodeKey(contractHash)}

	tx, err := stellar.BuildExtendTransaction(&account, keys, 500000, 100, 200000, 300)
	require.NoError(t, err)

	// Exactly one operation
	ops := tx.Operations()
	require.Len(t, ops, 1)
	op, ok := ops[0].(*txnbuild.ExtendFootprintTtl)
	require.True(t, ok)
	assert.Equal(t, uint32(500000), op.ExtendTo)

	// Read-only footprint carrying both entries, no writes
	require.NotNil(t, op.Ext.SorobanData)
	footprint := op.Ext.SorobanData.Resources.Footprint
	assert.Len(t, footprint.ReadOnly, 2)
	assert.Empty(t, footprint.ReadWrite)
	assert.Equal(t, xdr.Int64(200000), op.Ext.SorobanData.ResourceFee)

	// Envelope fee is base fee + resource fee (the guide's 200100)
	assert.Equal(t, int64(100), tx.BaseFee())
	assert.Equal(t, int64(200100), tx.MaxFee())

	// Sequence was consumed from the source account
	assert.Equal(t, int64(42), tx.SequenceNumber())
}

func TestBuildExtendTransactionSigning(t *testing.T) {
	kp := keypair.MustRandom()
	account := txnbuild.NewSimpleAccount(kp.Address(), 7)

	contractID, _ := testContractID(t)
	instanceKey, err := stellar.ContractInstanceKey(contractID)
	require.NoError(t, err)

	tx, err := stellar.BuildExtendTransaction(&account, []xdr.LedgerKey{instanceKey}, 1000, 100, 200000, 300)
	require.NoError(t, err)
	assert.Empty(t, tx.Signatures())

	signed, err := tx.Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)
	assert.Len(t, signed.Signatures(), 1)
}

func TestBuildRestoreTransaction(t *testing.T) {
	kp := keypair.MustRandom()
	account := txnbuild.NewSimpleAccount(kp.Address(), 1)

	contractID, contractHash := testContractID(t)
	instanceKey, err := stellar.ContractInstanceKey(contractID)
	require.NoError(t, err)
	keys := []xdr.LedgerKey{instanceKey, stellar.ContractCodeKey(contractHash)}

	tx, err := stellar.BuildRestoreTransaction(&account, keys, 100, 200000, 300)
	require.NoError(t, err)

	ops := tx.Operations()
	require.Len(t, ops, 1)
	op, ok := ops[0].(*txnbuild.RestoreFootprint)
	require.True(t, ok)

	// Restore targets go in the read-write footprint
	require.NotNil(t, op.Ext.SorobanData)
	footprint := op.Ext.SorobanData.Resources.Footprint
	assert.Empty(t, footprint.ReadOnly)
	assert.Len(t, footprint.ReadWrite, 2)
	assert.Equal(t, xdr.Int64(200000), op.Ext.SorobanData.ResourceFee)
}
