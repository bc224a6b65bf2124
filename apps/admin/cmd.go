package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/services/export"
	"github.com/shalini31102/studentApp/storage/database"
)

var (
	gooseRunFunc   = database.RunMigration // mockable
	isTerminalFunc = term.IsTerminal       // mockable

	errHelp           = errors.New("help provided")
	errNoPostgres     = errors.New("migrate requires the postgres storage engine")
	errNoMongo        = errors.New("indexes requires the mongodb storage engine")
	errTerminalOutput = errors.New("refusing to write a spreadsheet to a terminal: use -out FILE or redirect stdout")
)

type commandLine struct {
	db            *sql.DB                         // postgres engine only
	ensureIndexes func(ctx context.Context) error // mongodb engine only
	attSvc        attendance.Service
	stdout        *os.File
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...) on PostgreSQL")
	fmt.Println("  indexes - create the MongoDB indexes")
	fmt.Println("  exportreport -month MONTH -year YEAR [-out FILE] - export the monthly attendance report as XLSX")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("exportreport", flag.ContinueOnError)
	exportMonth := exportCmd.Int("month", 0, "The report month (1-12).")
	exportYear := exportCmd.Int("year", 0, "The report year.")
	exportOut := exportCmd.String("out", "", "The output file. Defaults to stdout.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "indexes":
		if cli.ensureIndexes == nil {
			return errNoMongo
		}
		return cli.ensureIndexes(context.Background())
	case "exportreport":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if _, _, ok := attendance.MonthRange(*exportMonth, *exportYear); !ok {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportReport(*exportMonth, *exportYear, *exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoPostgres
	}
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}

func (cli *commandLine) exportReport(month, year int, out string) error {
	rows, err := cli.attSvc.MonthlyReport(context.Background(), month, year)
	if err != nil {
		return err
	}

	if out == "" {
		if isTerminalFunc(int(cli.stdout.Fd())) {
			return errTerminalOutput
		}
		return exportsvc.WriteMonthlyReport(cli.stdout, month, year, rows)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err = exportsvc.WriteMonthlyReport(f, month, year, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
