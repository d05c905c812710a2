package models

import "strings"

// Account is a wallet the user controls. PrivateKey and Mnemonic are
// sensitive: they are persisted but must never appear in logs.
type Account struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

// WatchTarget is an external address the user wants activity alerts for.
type WatchTarget struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// UserProfile is the durable per-user record. MainAccount, when set, always
// references an address present in Accounts.
type UserProfile struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Accounts    []Account     `json:"accounts"`
	WatchList   []WatchTarget `json:"watch_list"`
	MainAccount *string       `json:"main_account,omitempty"`
	SlippageBps int           `json:"slippage_bps"`
	MaxGasGwei  int           `json:"max_gas_gwei"`
}

func sameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Account returns the account with the given address, if present.
func (p *UserProfile) Account(address string) (Account, bool) {
	for _, acc := range p.Accounts {
		if sameAddress(acc.Address, address) {
			return acc, true
		}
	}
	return Account{}, false
}

// AddAccount appends acc unless an account with the same address exists.
func (p *UserProfile) AddAccount(acc Account) bool {
	if _, ok := p.Account(acc.Address); ok {
		return false
	}
	p.Accounts = append(p.Accounts, acc)
	return true
}

// RemoveAccount deletes the account with the given address. When the deleted
// account was the main account, the main account falls back to the new first
// account, or nil if none remain.
func (p *UserProfile) RemoveAccount(address string) bool {
	idx := -1
	for i, acc := range p.Accounts {
		if sameAddress(acc.Address, address) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	p.Accounts = append(p.Accounts[:idx], p.Accounts[idx+1:]...)

	if p.MainAccount != nil && sameAddress(*p.MainAccount, address) {
		if len(p.Accounts) > 0 {
			first := p.Accounts[0].Address
			p.MainAccount = &first
		} else {
			p.MainAccount = nil
		}
	}
	return true
}

// SetMainAccount marks the given address as the trading default. The address
// must belong to the profile.
func (p *UserProfile) SetMainAccount(address string) bool {
	acc, ok := p.Account(address)
	if !ok {
		return false
	}
	addr := acc.Address
	p.MainAccount = &addr
	return true
}

// ActiveAccount resolves the account used for trading: the main account when
// set, otherwise the first account. promoted reports that the first account
// was picked while MainAccount was unset, so callers can persist the choice.
func (p *UserProfile) ActiveAccount() (acc Account, promoted bool, ok bool) {
	if p.MainAccount != nil {
		if a, found := p.Account(*p.MainAccount); found {
			return a, false, true
		}
	}
	if len(p.Accounts) == 0 {
		return Account{}, false, false
	}
	return p.Accounts[0], p.MainAccount == nil, true
}

// Watches reports whether the address is already on the watch list.
func (p *UserProfile) Watches(address string) bool {
	for _, w := range p.WatchList {
		if sameAddress(w.Address, address) {
			return true
		}
	}
	return false
}

// AddWatchTarget appends the target unless its address is already watched.
func (p *UserProfile) AddWatchTarget(t WatchTarget) bool {
	if p.Watches(t.Address) {
		return false
	}
	p.WatchList = append(p.WatchList, t)
	return true
}

// RemoveWatchTarget drops the watch entry for the address.
func (p *UserProfile) RemoveWatchTarget(address string) bool {
	for i, w := range p.WatchList {
		if sameAddress(w.Address, address) {
			p.WatchList = append(p.WatchList[:i], p.WatchList[i+1:]...)
			return true
		}
	}
	return false
}
