package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-page/internal/config"
	"gitlab.com/dirk.krummacker/contacts-page/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store/ormstore"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store/sqlstore"
)

type CLI struct {
	File     string          `help:"The SQL file to execute (MySQL only)." default:"database.sql"`
	Database config.Database `embed:"" prefix:"db-"`
}

// Usage example on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go --file=../../scripts/database.sql
// > DBDRIVER=postgres DBHOST=localhost:5432 DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("migration"),
		kong.Description("Creates the tables of the contacts service."),
	)
	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	dsn, err := cli.Database.DataSourceName()
	if err != nil {
		log.Fatal("invalid database settings", "error", err)
	}
	if cli.Database.Driver == "mysql" {
		err = executeFile(dsn, cli.File, log)
	} else {
		err = autoMigrate(cli.Database.Driver, dsn, log)
	}
	if err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("migration finished", "driver", cli.Database.Driver)
}

// executeFile runs the statements of an SQL file one after the other. A statement ends on the
// line that contains a semicolon.
func executeFile(dsn string, file string, log *logger.Logger) error {
	sqlDB, err := sqlstore.Open(dsn)
	if err != nil {
		return err
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	readFile, err := os.Open(file) // nosemgrep
	if err != nil {
		return err
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			if _, err := db.Exec(sql); err != nil {
				return fmt.Errorf("execute %q: %w", strings.TrimSpace(sql), err)
			}
			log.Debug("executed statement", "sql", strings.TrimSpace(sql))
			builder = strings.Builder{}
		}
	}
	return fileScanner.Err()
}

func autoMigrate(driver string, dsn string, log *logger.Logger) error {
	gateway, err := ormstore.Open(driver, dsn, nil, log)
	if err != nil {
		return err
	}
	defer gateway.Close()
	return gateway.Migrate()
}
