package ledger

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/DrewWhite51/blockchain-poc/genesis"
	"github.com/DrewWhite51/blockchain-poc/records"
)

func newTestLedger(t *testing.T, difficulty int, reward float64) *Ledger {
	t.Helper()
	l, err := New(context.Background(), Config{Difficulty: difficulty, Reward: reward})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return l
}

func TestNewLedger(t *testing.T) {
	l := newTestLedger(t, 2, 50)

	snap := l.ChainSnapshot()
	if len(snap) != 1 {
		t.Fatalf("expected only genesis, got %d blocks", len(snap))
	}
	g := l.chain[0]
	if g.PreviousHash != "0" || g.Index != 0 {
		t.Errorf("unexpected genesis linkage %d %q", g.Index, g.PreviousHash)
	}
	if !strings.HasPrefix(g.Hash, "00") {
		t.Errorf("genesis hash %s does not meet difficulty", g.Hash)
	}
	if len(g.Records) != 1 || g.Records[0].Sender != genesis.NETWORK_SENDER ||
		g.Records[0].Recipient != genesis.GENESIS_RECIPIENT || g.Records[0].Amount != 0 {
		t.Errorf("unexpected genesis records %+v", g.Records)
	}
	if !l.IsChainValid() {
		t.Error("fresh ledger is not valid")
	}
	if l.Height() != 0 {
		t.Errorf("expected height 0, got %d", l.Height())
	}
}

func TestNewLedgerRejectsConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative difficulty", Config{Difficulty: -1, Reward: 1}},
		{"difficulty beyond digest", Config{Difficulty: 65, Reward: 1}},
		{"negative reward", Config{Difficulty: 1, Reward: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestZeroDifficultyLedger(t *testing.T) {
	l := newTestLedger(t, 0, 0)
	if _, err := l.SealBlock(context.Background(), "Miner1"); err != nil {
		t.Fatalf("SealBlock() failed: %v", err)
	}
	if !l.IsChainValid() {
		t.Error("zero difficulty chain should be valid")
	}
	if l.GetBalance("Miner1") != 0 {
		t.Errorf("expected zero reward balance, got %v", l.GetBalance("Miner1"))
	}
}

func TestSealRewardOnly(t *testing.T) {
	l := newTestLedger(t, 2, 50)

	b, err := l.SealBlock(context.Background(), "Miner1")
	if err != nil {
		t.Fatalf("SealBlock() failed: %v", err)
	}
	if !strings.HasPrefix(b.Hash, "00") {
		t.Errorf("block hash %s does not start with 00", b.Hash)
	}
	if b.Index != 1 || b.PreviousHash != l.chain[0].Hash {
		t.Errorf("unexpected linkage %d %q", b.Index, b.PreviousHash)
	}
	if len(b.Records) != 1 {
		t.Errorf("expected only the reward record, got %d", len(b.Records))
	}
	if got := l.GetBalance("Miner1"); got != 50 {
		t.Errorf("GetBalance(Miner1) = %v, want 50", got)
	}
	if got := l.GetBalance("Alice"); got != 0 {
		t.Errorf("GetBalance(Alice) = %v, want 0", got)
	}
}

func TestTransferScenarioAndTamper(t *testing.T) {
	l := newTestLedger(t, 2, 50)

	id, err := l.Submit("Alice", "Bob", 30)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if len(id) != 64 {
		t.Errorf("unexpected record id %q", id)
	}

	summary, err := l.Seal(context.Background(), "Miner1")
	if err != nil {
		t.Fatalf("Seal() failed: %v", err)
	}
	if summary.RecordCount != 2 || summary.Index != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(l.Pending()) != 0 {
		t.Errorf("pending buffer not cleared: %d", len(l.Pending()))
	}

	want := map[string]float64{"Alice": -30, "Bob": 30, "Miner1": 50}
	for who, amount := range want {
		if got := l.GetBalance(who); got != amount {
			t.Errorf("GetBalance(%s) = %v, want %v", who, got, amount)
		}
	}
	if !l.IsChainValid() {
		t.Fatal("chain should be valid before tampering")
	}

	// tamper with the stored amount without remining
	sealed := l.chain[1]
	if sealed.Records[0].Sender != "Alice" || sealed.Records[0].Id != id {
		t.Fatalf("expected Alice's record first, got %+v", sealed.Records[0])
	}
	sealed.Records[0].Amount = 9999

	if l.IsChainValid() {
		t.Error("tampered chain reported valid")
	}
	if err := l.Validate(); !errors.Is(err, ErrInvalidChain) {
		t.Errorf("expected ErrInvalidChain, got %v", err)
	}
	if got := l.GetBalance("Alice"); got != -9999 {
		t.Errorf("GetBalance(Alice) = %v, want corrupted -9999", got)
	}
}

func TestAddRecordValidation(t *testing.T) {
	l := newTestLedger(t, 1, 50)

	tests := []struct {
		name string
		rec  records.Record
	}{
		{"empty sender", records.NewRecord("", "Bob", 1)},
		{"empty recipient", records.NewRecord("Alice", "", 1)},
		{"zero amount", records.NewRecord("Alice", "Bob", 0)},
		{"negative amount", records.NewRecord("Alice", "Bob", -1)},
		{"infinite amount", records.NewRecord("Alice", "Bob", math.Inf(1))},
		{"NaN amount", records.NewRecord("Alice", "Bob", math.NaN())},
		{"literal without id", records.Record{Sender: "Alice", Recipient: "Bob", Amount: 5}},
		{"stale id", func() records.Record {
			r := records.NewRecord("Alice", "Bob", 5)
			r.Recipient = "Mallory"
			return r
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.AddRecord(tt.rec)
			if !errors.Is(err, records.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if len(l.Pending()) != 0 {
				t.Error("rejected record reached the pending buffer")
			}
		})
	}

	if _, err := l.Submit("", "Bob", 5); !errors.Is(err, records.ErrValidation) {
		t.Errorf("Submit() expected ErrValidation, got %v", err)
	}
	if _, err := l.Submit("Alice", "Bob", math.Inf(1)); !errors.Is(err, records.ErrValidation) {
		t.Errorf("Submit() expected ErrValidation for +Inf, got %v", err)
	}
}

func TestRejectedRecordsKeepChainSound(t *testing.T) {
	l := newTestLedger(t, 1, 50)

	_ = l.AddRecord(records.Record{Sender: "Alice", Recipient: "Bob", Amount: 5})
	_, _ = l.Submit("Alice", "Bob", math.Inf(1))
	if _, err := l.Submit("Alice", "Bob", 5); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, err := l.SealBlock(context.Background(), "Miner1"); err != nil {
		t.Fatalf("SealBlock() failed: %v", err)
	}

	if err := l.Validate(); err != nil {
		t.Errorf("chain built through AddRecord/SealBlock is invalid: %v", err)
	}
	if got := l.Balances().Total(genesis.NETWORK_SENDER); got != 50 {
		t.Errorf("supply = %v, want 50", got)
	}
	if got := l.GetBalance("Bob"); got != 5 {
		t.Errorf("GetBalance(Bob) = %v, want 5", got)
	}
}

func TestPendingOrderPreserved(t *testing.T) {
	l := newTestLedger(t, 1, 10)
	a := records.NewRecordAt("Alice", "Bob", 1, 1)
	b := records.NewRecordAt("Bob", "Carol", 2, 2)
	for _, r := range []records.Record{a, b, a} {
		if err := l.AddRecord(r); err != nil {
			t.Fatalf("AddRecord() failed: %v", err)
		}
	}

	blk, err := l.SealBlock(context.Background(), "Miner1")
	if err != nil {
		t.Fatalf("SealBlock() failed: %v", err)
	}
	if len(blk.Records) != 4 {
		t.Fatalf("expected 3 records plus reward, got %d", len(blk.Records))
	}
	if blk.Records[0].Id != a.Id || blk.Records[1].Id != b.Id || blk.Records[2].Id != a.Id {
		t.Error("block does not preserve arrival order")
	}
	last := blk.Records[3]
	if last.Sender != genesis.NETWORK_SENDER || last.Recipient != "Miner1" || last.Amount != 10 {
		t.Errorf("reward record not last: %+v", last)
	}
}

func TestSealCancelledLeavesStateUntouched(t *testing.T) {
	l := newTestLedger(t, 1, 50)
	if _, err := l.Submit("Alice", "Bob", 5); err != nil {
		t.Fatal(err)
	}

	// swap in an unreachable difficulty so the mine can only end by cancellation
	l.config.Difficulty = 64
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.SealBlock(ctx, "Miner1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(l.chain) != 1 {
		t.Errorf("cancelled seal appended a block")
	}
	pending := l.Pending()
	if len(pending) != 1 || pending[0].Sender != "Alice" {
		t.Errorf("cancelled seal changed pending buffer: %+v", pending)
	}
}

func TestSealRejectsEmptyMiner(t *testing.T) {
	l := newTestLedger(t, 1, 50)
	_, err := l.SealBlock(context.Background(), "")
	if !errors.Is(err, records.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if len(l.chain) != 1 {
		t.Error("failed seal appended a block")
	}
}

func TestBalanceConservation(t *testing.T) {
	l := newTestLedger(t, 1, 50)
	ctx := context.Background()

	steps := []struct {
		from, to string
		amount   float64
		miner    string
	}{
		{"Alice", "Bob", 30, "Miner1"},
		{"Bob", "Carol", 12.5, "Miner2"},
		{"Carol", "Alice", 2.25, "Miner1"},
	}
	for _, s := range steps {
		if _, err := l.Submit(s.from, s.to, s.amount); err != nil {
			t.Fatal(err)
		}
		if _, err := l.SealBlock(ctx, s.miner); err != nil {
			t.Fatal(err)
		}
	}

	minted := 50 * float64(len(steps))
	sheet := l.Balances()
	if got := sheet.Total(genesis.NETWORK_SENDER); got != minted {
		t.Errorf("supply = %v, want %v", got, minted)
	}
	for _, id := range sheet.Ids() {
		if sheet.Balance(id) != l.GetBalance(id) {
			t.Errorf("sheet and replay disagree for %s", id)
		}
	}
	if !l.IsChainValid() {
		t.Error("chain built purely by sealing must be valid")
	}
}

func TestValidationDetectsStructuralDamage(t *testing.T) {
	build := func(t *testing.T) *Ledger {
		l := newTestLedger(t, 1, 50)
		for _, m := range []string{"Miner1", "Miner2", "Miner3"} {
			if _, err := l.SealBlock(context.Background(), m); err != nil {
				t.Fatal(err)
			}
		}
		return l
	}

	tests := []struct {
		name   string
		damage func(l *Ledger)
	}{
		{"reordered blocks", func(l *Ledger) {
			l.chain[1], l.chain[2] = l.chain[2], l.chain[1]
		}},
		{"excised block", func(l *Ledger) {
			l.chain = append(l.chain[:1], l.chain[2:]...)
		}},
		{"broken linkage", func(l *Ledger) {
			l.chain[2].PreviousHash = strings.Repeat("0", 64)
		}},
		{"rehashed without work", func(l *Ledger) {
			b := l.chain[3]
			b.Records[0].Amount = 1000
			b.Records[0].Id = b.Records[0].CalculateId()
			for b.Hash = b.CalculateHash(); strings.HasPrefix(b.Hash, "0"); b.Hash = b.CalculateHash() {
				b.Nonce++
			}
		}},
		{"tampered genesis", func(l *Ledger) {
			l.chain[0].Timestamp++
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := build(t)
			if !l.IsChainValid() {
				t.Fatal("chain invalid before damage")
			}
			tt.damage(l)
			if l.IsChainValid() {
				t.Error("damage not detected")
			}
		})
	}
}

func TestRestore(t *testing.T) {
	l := newTestLedger(t, 1, 50)
	if _, err := l.Submit("Alice", "Bob", 7); err != nil {
		t.Fatal(err)
	}
	if _, err := l.SealBlock(context.Background(), "Miner1"); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(l.Config(), l.Blocks())
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if restored.Height() != 1 || restored.GetBalance("Bob") != 7 {
		t.Errorf("restored ledger differs: height %d", restored.Height())
	}

	if _, err := Restore(l.Config(), nil); !errors.Is(err, ErrInvalidChain) {
		t.Errorf("expected ErrInvalidChain for empty chain, got %v", err)
	}

	broken := l.Blocks()
	broken[1].Records[0].Amount = 70
	if _, err := Restore(l.Config(), broken); !errors.Is(err, ErrInvalidChain) {
		t.Errorf("expected ErrInvalidChain for tampered chain, got %v", err)
	}
}

func TestBlocksAreCopies(t *testing.T) {
	l := newTestLedger(t, 1, 50)
	if _, err := l.SealBlock(context.Background(), "Miner1"); err != nil {
		t.Fatal(err)
	}
	exported := l.Blocks()
	exported[1].Records[0].Amount = 1
	if !l.IsChainValid() {
		t.Error("mutating exported blocks affected the ledger")
	}
	latest := l.Latest()
	if latest.Index != 1 {
		t.Errorf("expected latest index 1, got %d", latest.Index)
	}
}
