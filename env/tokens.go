package env

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"os"
	"sort"
)

func (e *Env) loadTokens() error {
	infoJson, err := os.ReadFile(config.TokensFile)
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}
	tokens := make(map[solana.PublicKey]*program.Asset)
	if err := json.Unmarshal(infoJson, &tokens); err != nil {
		return fmt.Errorf("parse tokens: %w", err)
	}
	for mint, token := range tokens {
		token.Mint = mint
	}
	e.lock.Lock()
	e.tokens = tokens
	e.lock.Unlock()
	return nil
}

func (e *Env) Token(key solana.PublicKey) *program.Asset {
	e.lock.RLock()
	defer e.lock.RUnlock()
	if item, ok := e.tokens[key]; ok {
		return item
	}
	return nil
}

// Assets lists the known tokens ordered by mint.
func (e *Env) Assets() []*program.Asset {
	e.lock.RLock()
	assets := make([]*program.Asset, 0, len(e.tokens))
	for _, token := range e.tokens {
		assets = append(assets, token)
	}
	e.lock.RUnlock()
	sort.Slice(assets, func(i, j int) bool {
		return bytes.Compare(assets[i].Mint[:], assets[j].Mint[:]) < 0
	})
	return assets
}

// Symbol returns the token symbol or the mint when the token is unknown.
func (e *Env) Symbol(key solana.PublicKey) string {
	if token := e.Token(key); token != nil {
		return token.Symbol
	}
	return key.String()
}
