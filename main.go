package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron"

	"github.com/bcaldwell/bankshift/internal/fireflyimporter"
	"github.com/bcaldwell/bankshift/pkg/config"
)

type Runner interface {
	Run() error
}

var runner Runner

func main() {
	singleRun := flag.Bool("single-run", false, "run the task once (disable cron)")
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.json", "secrets file")
	noTag := flag.Bool("no-tag", false, "list: only transactions without any tag")
	noCategory := flag.Bool("no-category", false, "list: only transactions without a category")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("bank to firefly importer")
		fmt.Println("bankshift [options] task")
		fmt.Println("tasks: sync, update, list")
		flag.PrintDefaults()
		return
	}

	err := config.ReadConfig("BANKSHIFT_CONFIG", *configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "sync":
		runner = fireflyimporter.SyncRunner{}
	case "update":
		runner = fireflyimporter.UpdateRunner{}
	case "list":
		runner = fireflyimporter.ListRunner{NoTag: *noTag, NoCategory: *noCategory}
	default:
		fmt.Println("No task passed in")
		return
	}

	run()

	// Only the sync task is worth repeating on a schedule.
	if *singleRun || flag.Arg(0) != "sync" {
		return
	}

	c := cron.New()
	c.AddFunc(config.CurrentBankConfig().UpdateFrequency, run)

	c.Start()

	select {}
}

func run() {
	fmt.Println(time.Now().Format(time.RFC850))
	err := runner.Run()
	if err != nil {
		fmt.Println(err)
	}
}
