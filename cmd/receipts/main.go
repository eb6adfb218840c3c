package main

import (
	"fmt"
	"os"

	"receipts/internal/config"
	"receipts/internal/logger"
	"receipts/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	must(err)

	runner := pipeline.NewBatchRunner(cfg, logger.New(cfg.LogLevel))
	count, err := runner.Run(os.Args[1])
	must(err)
	fmt.Printf("Found %d purchases.\n", count)
}

func usage() {
	fmt.Println("usage: receipts <mail-directory>")
	fmt.Println("Reads every receipt email in the directory and writes out.csv to the current directory.")
	fmt.Println("env: OUTPUT_CSV, OUTPUT_XLSX, WORKERS, LOG_LEVEL")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Printf("Had error: %v\n", err)
	os.Exit(1)
}
