package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type CommandKind byte

const (
	SUBMIT_CMD CommandKind = iota + 1
	SEAL_CMD
	BALANCE_CMD
	VALIDATE_CMD
	SHOW_CMD
)

var (
	ErrScript = errors.New("script error")
	ErrFlag   = errors.New("invalid flag")
)

func (ck CommandKind) ToString() string {
	switch ck {
	case SUBMIT_CMD:
		return "submit"
	case SEAL_CMD:
		return "seal"
	case BALANCE_CMD:
		return "balance"
	case VALIDATE_CMD:
		return "validate"
	case SHOW_CMD:
		return "show"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind      CommandKind
	Line      int
	Sender    string
	Recipient string
	Amount    float64
	Id        string
}

// ParseScript reads one command per line. Blank lines and lines starting
// with # are skipped.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		cmd, err := parseCommand(line, fields)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

func parseCommand(line int, fields []string) (Command, error) {
	cmd := Command{Line: line}
	want := func(n int) error {
		if len(fields) != n+1 {
			return fmt.Errorf(
				"%w: line %d: %s takes %d argument(s), got %d",
				ErrScript, line, fields[0], n, len(fields)-1,
			)
		}
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "submit":
		if err := want(3); err != nil {
			return cmd, err
		}
		amount, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return cmd, fmt.Errorf("%w: line %d: amount: %v", ErrScript, line, err)
		}
		cmd.Kind = SUBMIT_CMD
		cmd.Sender = fields[1]
		cmd.Recipient = fields[2]
		cmd.Amount = amount
	case "seal":
		if err := want(1); err != nil {
			return cmd, err
		}
		cmd.Kind = SEAL_CMD
		cmd.Id = fields[1]
	case "balance":
		if err := want(1); err != nil {
			return cmd, err
		}
		cmd.Kind = BALANCE_CMD
		cmd.Id = fields[1]
	case "validate":
		if err := want(0); err != nil {
			return cmd, err
		}
		cmd.Kind = VALIDATE_CMD
	case "show":
		if err := want(0); err != nil {
			return cmd, err
		}
		cmd.Kind = SHOW_CMD
	default:
		return cmd, fmt.Errorf("%w: line %d: unknown command %q", ErrScript, line, fields[0])
	}
	return cmd, nil
}
