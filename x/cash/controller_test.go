package cash

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/store"
	"github.com/iov-one/streampay/streamtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveCoins(t *testing.T) {
	alice := streamtest.RandomAddr(t)
	bob := streamtest.RandomAddr(t)
	carl := streamtest.RandomAddr(t)

	ctrl := NewController()

	cases := map[string]struct {
		funded    uint64
		src, dest streampay.Address
		amount    uint64
		wantErr   *errors.Error
		wantSrc   uint64
		wantDest  uint64
	}{
		"happy path": {
			funded: 100, src: alice, dest: bob, amount: 40,
			wantSrc: 60, wantDest: 40,
		},
		"whole balance": {
			funded: 100, src: alice, dest: bob, amount: 100,
			wantSrc: 0, wantDest: 100,
		},
		"insufficient funds": {
			funded: 10, src: alice, dest: bob, amount: 11,
			wantErr: errors.ErrAmount, wantSrc: 10,
		},
		"unfunded sender": {
			funded: 100, src: carl, dest: bob, amount: 1,
			wantErr: errors.ErrAmount,
		},
		"zero amount": {
			funded: 100, src: alice, dest: bob, amount: 0,
			wantErr: errors.ErrAmount, wantSrc: 100,
		},
		"transfer to self": {
			funded: 100, src: alice, dest: alice, amount: 30,
			wantSrc: 100, wantDest: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			require.NoError(t, ctrl.IssueCoins(db, alice, tc.funded))

			err := ctrl.MoveCoins(db, tc.src, tc.dest, tc.amount)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err))
			} else {
				require.NoError(t, err)
			}

			srcFunds, err := ctrl.Balance(db, tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, srcFunds)
			destFunds, err := ctrl.Balance(db, tc.dest)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, destFunds)
		})
	}
}

func TestIssueCoinsOverflow(t *testing.T) {
	db := store.MemStore()
	addr := streamtest.RandomAddr(t)
	ctrl := NewController()

	require.NoError(t, ctrl.IssueCoins(db, addr, math.MaxUint64-1))
	err := ctrl.IssueCoins(db, addr, 2)
	require.Error(t, err)
	assert.True(t, errors.ErrOverflow.Is(err))

	// the failed issue didn't touch the wallet
	funds, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-1), funds)
}

func TestGenesisAccounts(t *testing.T) {
	db := store.MemStore()
	alice := streamtest.RandomAddr(t)
	bob := streamtest.RandomAddr(t)

	genesis, err := json.Marshal([]map[string]interface{}{
		{"address": alice, "funds": 125},
		{"address": bob, "funds": 0},
	})
	require.NoError(t, err)

	opts := streampay.Options{"cash": genesis}
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController()
	funds, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(125), funds)
	funds, err = ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), funds)
}
