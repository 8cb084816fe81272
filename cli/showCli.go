package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/database"
	"github.com/DrewWhite51/blockchain-poc/genesis"
	"github.com/DrewWhite51/blockchain-poc/ledger"
	"github.com/DrewWhite51/blockchain-poc/records"

	"github.com/pterm/pterm"
)

func startShow(sf storeFlags) error {
	store, err := database.Open(*sf.backend, *sf.path)
	if err != nil {
		return err
	}
	defer store.Close()

	chain, err := store.Blocks()
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		pterm.Warning.Printfln("%s holds no blocks", *sf.path)
		return nil
	}

	l, err := ledger.Restore(sf.config(), chain)
	if errors.Is(err, ledger.ErrInvalidChain) {
		pterm.Error.Println(err.Error())
		printValidity(false)
		return nil
	}
	if err != nil {
		return err
	}

	if err := renderChain(l.ChainSnapshot()); err != nil {
		return err
	}
	if err := renderBalances(l); err != nil {
		return err
	}
	printValidity(l.IsChainValid())
	return nil
}

func printValidity(valid bool) {
	if valid {
		pterm.Success.Println("chain is valid")
	} else {
		pterm.Error.Println("chain is NOT valid")
	}
}

func renderChain(snap []blocks.Summary) error {
	pterm.DefaultSection.Println("Chain")
	data := pterm.TableData{
		{"Index", "Hash", "Previous", "Nonce", "Records"},
	}
	for _, s := range snap {
		data = append(data, []string{
			strconv.FormatUint(s.Index, 10),
			shorten(s.Hash),
			shorten(s.PreviousHash),
			strconv.FormatUint(s.Nonce, 10),
			strconv.Itoa(s.RecordCount),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderBalances(l *ledger.Ledger) error {
	pterm.DefaultSection.Println("Balances")
	sheet := l.Balances()
	data := pterm.TableData{{"Id", "Balance"}}
	for _, id := range sheet.Ids() {
		data = append(data, []string{id, records.FormatAmount(sheet.Balance(id))})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln(
		"minted supply: %s", records.FormatAmount(sheet.Total(genesis.NETWORK_SENDER)),
	)
	return nil
}

func shorten(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return fmt.Sprintf("%s..%s", hash[:8], hash[len(hash)-8:])
}
