package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileWith(addresses ...string) *UserProfile {
	p := &UserProfile{ID: 1}
	for _, addr := range addresses {
		p.Accounts = append(p.Accounts, Account{Address: addr})
	}
	return p
}

func TestRemoveAccount_MainFallsBackToFirst(t *testing.T) {
	p := profileWith("0xA", "0xB")
	require.True(t, p.SetMainAccount("0xA"))

	require.True(t, p.RemoveAccount("0xA"))

	require.Len(t, p.Accounts, 1)
	assert.Equal(t, "0xB", p.Accounts[0].Address)
	require.NotNil(t, p.MainAccount)
	assert.Equal(t, "0xB", *p.MainAccount)
}

func TestRemoveAccount_LastAccountClearsMain(t *testing.T) {
	p := profileWith("0xA")
	require.True(t, p.SetMainAccount("0xA"))

	require.True(t, p.RemoveAccount("0xA"))

	assert.Empty(t, p.Accounts)
	assert.Nil(t, p.MainAccount)
}

func TestRemoveAccount_NonMainKeepsMain(t *testing.T) {
	p := profileWith("0xA", "0xB")
	require.True(t, p.SetMainAccount("0xA"))

	require.True(t, p.RemoveAccount("0xB"))

	require.NotNil(t, p.MainAccount)
	assert.Equal(t, "0xA", *p.MainAccount)
}

func TestAddAccount_DuplicateAddressRejected(t *testing.T) {
	p := profileWith("0xA")

	assert.False(t, p.AddAccount(Account{Address: "0xa"})) // case-insensitive
	assert.Len(t, p.Accounts, 1)
}

func TestActiveAccount_PromotesFirstWhenUnset(t *testing.T) {
	p := profileWith("0xA", "0xB")

	acc, promoted, ok := p.ActiveAccount()
	require.True(t, ok)
	assert.True(t, promoted)
	assert.Equal(t, "0xA", acc.Address)
}

func TestActiveAccount_NoAccounts(t *testing.T) {
	p := profileWith()

	_, _, ok := p.ActiveAccount()
	assert.False(t, ok)
}

func TestAddWatchTarget_DuplicateRejected(t *testing.T) {
	p := profileWith()

	assert.True(t, p.AddWatchTarget(WatchTarget{Address: "0xabc", Name: "whale"}))
	assert.False(t, p.AddWatchTarget(WatchTarget{Address: "0xABC", Name: "again"}))
	assert.Len(t, p.WatchList, 1)
}

func TestRemoveWatchTarget(t *testing.T) {
	p := profileWith()
	p.AddWatchTarget(WatchTarget{Address: "0xabc", Name: "whale"})

	assert.True(t, p.RemoveWatchTarget("0xabc"))
	assert.False(t, p.RemoveWatchTarget("0xabc"))
	assert.Empty(t, p.WatchList)
}
