package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/DrewWhite51/blockchain-poc/database"
	"github.com/DrewWhite51/blockchain-poc/ledger"
	"github.com/DrewWhite51/blockchain-poc/records"

	"github.com/pterm/pterm"
	"golang.org/x/time/rate"
)

func openScript(name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: no script given", ErrScript)
	}
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// openLedger restores the stored chain, or mines a fresh genesis and stores
// it when the store is empty.
func openLedger(
	ctx context.Context, store database.Store, cfg ledger.Config,
) (*ledger.Ledger, error) {
	chain, err := store.Blocks()
	if err != nil {
		return nil, err
	}
	if len(chain) > 0 {
		return ledger.Restore(cfg, chain)
	}

	l, err := ledger.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	_, err = database.PutChain(store, l.Blocks())
	if err != nil {
		return nil, err
	}
	return l, nil
}

func startRun(sf storeFlags, script string, perSecond float64) error {
	limit, burst, err := submitLimit(perSecond)
	if err != nil {
		return err
	}
	f, err := openScript(script)
	if err != nil {
		return err
	}
	cmds, err := ParseScript(f)
	f.Close()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := database.Open(*sf.backend, *sf.path)
	if err != nil {
		return err
	}
	defer store.Close()

	l, err := openLedger(ctx, store, sf.config())
	if err != nil {
		return err
	}

	g := ledger.NewGuarded(l, limit, burst)
	return Execute(ctx, g, store, cmds)
}

// submitLimit turns the -rate flag into a limiter setting. Zero means
// unthrottled.
func submitLimit(perSecond float64) (rate.Limit, int, error) {
	if perSecond < 0 || math.IsNaN(perSecond) || math.IsInf(perSecond, 0) {
		return 0, 0, fmt.Errorf("%w: -rate must be a finite value >= 0, got %v", ErrFlag, perSecond)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.Limit(perSecond), burst, nil
}

// Execute runs cmds against g. Rejected submissions are reported and
// skipped; a failed seal or store write stops the script.
func Execute(
	ctx context.Context, g *ledger.Guarded, store database.Store, cmds []Command,
) error {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case SUBMIT_CMD:
			id, err := g.Submit(cmd.Sender, cmd.Recipient, cmd.Amount)
			if errors.Is(err, records.ErrValidation) || errors.Is(err, ledger.ErrThrottled) {
				pterm.Error.Printfln("line %d: %v", cmd.Line, err)
				continue
			}
			if err != nil {
				return err
			}
			pterm.Info.Printfln(
				"submitted %s -> %s %s (%s)",
				cmd.Sender, cmd.Recipient, records.FormatAmount(cmd.Amount), id,
			)
		case SEAL_CMD:
			summary, err := g.Seal(ctx, cmd.Id)
			if errors.Is(err, records.ErrValidation) {
				pterm.Error.Printfln("line %d: %v", cmd.Line, err)
				continue
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", cmd.Line, err)
			}
			if store != nil {
				if _, err := database.PutChain(store, g.Blocks()); err != nil {
					return fmt.Errorf("line %d: persisting block %d: %w", cmd.Line, summary.Index, err)
				}
			}
			pterm.Success.Printfln(
				"sealed block %d with %d records, nonce %d\n%s",
				summary.Index, summary.RecordCount, summary.Nonce, summary.Hash,
			)
		case BALANCE_CMD:
			pterm.Info.Printfln(
				"balance of %s: %s", cmd.Id, records.FormatAmount(g.BalanceOf(cmd.Id)),
			)
		case VALIDATE_CMD:
			printValidity(g.IsValid())
		case SHOW_CMD:
			if err := renderChain(g.ChainSnapshot()); err != nil {
				return err
			}
		default:
			log.Printf("skipping unknown command at line %d\n", cmd.Line)
		}
	}
	return nil
}
