package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lunark/abacus-api/internal/cli"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:3000", "exam server base URL")
	username := flag.String("user", "", "username")
	password := flag.String("password", "", "password")
	duration := flag.Duration("duration", 15*time.Minute, "exam time limit")
	flag.Parse()

	cfg := cli.Config{
		ServerURL: *server,
		Username:  *username,
		Password:  *password,
		Duration:  *duration,
	}
	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
