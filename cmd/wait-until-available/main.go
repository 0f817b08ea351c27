package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cenkalti/backoff/v5"
)

type CLI struct {
	URL      string        `help:"Endpoint that has to answer with 200 OK." default:"http://localhost:8080/api/contacts"`
	Interval time.Duration `help:"Pause between two attempts." default:"5s"`
	Timeout  time.Duration `help:"Give up after this time." default:"5m"`
}

// Usage example on the command line:
// > go run main.go --interval=2s --timeout=1m
func main() {
	var cli CLI
	kong.Parse(&cli, kong.Name("wait-until-available"))

	totalWaitTime := time.Duration(0)
	status, err := backoff.Retry(context.Background(),
		func() (string, error) {
			res, err := http.Get(cli.URL)
			if err != nil {
				return "", err
			}
			defer res.Body.Close()
			if res.StatusCode != http.StatusOK {
				return "", fmt.Errorf("unexpected status %s", res.Status)
			}
			return res.Status, nil
		},
		backoff.WithBackOff(backoff.NewConstantBackOff(cli.Interval)),
		backoff.WithMaxElapsedTime(cli.Timeout),
		backoff.WithNotify(func(err error, wait time.Duration) {
			totalWaitTime += wait
			fmt.Println(err)
			fmt.Printf("Waiting %d seconds", int(totalWaitTime.Seconds()))
			fmt.Println()
		}),
	)
	if err != nil {
		fmt.Println("service not available:", err)
		os.Exit(1)
	}
	fmt.Println(status)
}
