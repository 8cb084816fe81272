package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/DrewWhite51/blockchain-poc/database"
	"github.com/DrewWhite51/blockchain-poc/ledger"
)

func printUsage() {
	fmt.Println()
	fmt.Println("usage:")
	fmt.Println(" run -script FILE [-db PATH -backend bolt|level -d N -r R -rate N]")
	fmt.Println("     (execute a ledger script, persisting sealed blocks)")
	fmt.Println(" show [-db PATH -backend bolt|level -d N -r R]")
	fmt.Println("     (print the stored chain, balances and validity)")
	fmt.Println()
}

func validateArgs() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
}

type storeFlags struct {
	path       *string
	backend    *string
	difficulty *int
	reward     *float64
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		path:       fs.String("db", "ledger.db", "database path"),
		backend:    fs.String("backend", database.BOLT_BACKEND, "storage backend (bolt|level)"),
		difficulty: fs.Int("d", ledger.DEFAULT_DIFFICULTY, "leading zero hex characters required"),
		reward:     fs.Float64("r", ledger.DEFAULT_REWARD, "mining reward"),
	}
}

func (sf storeFlags) config() ledger.Config {
	return ledger.Config{
		Difficulty: *sf.difficulty,
		Reward:     *sf.reward,
	}
}

func Run() error {
	validateArgs()
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)

	runStore := addStoreFlags(runCmd)
	runScript := runCmd.String("script", "", "script file to execute (- for stdin)")
	runRate := runCmd.Float64("rate", 0, "max submissions per second (0 = unlimited)")
	showStore := addStoreFlags(showCmd)

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd.Parse(os.Args[2:])
	case "show":
		err = showCmd.Parse(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	if runCmd.Parsed() {
		err = startRun(runStore, *runScript, *runRate)
	} else if showCmd.Parsed() {
		err = startShow(showStore)
	}
	return err
}
