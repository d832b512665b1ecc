package main

import (
	"context"
	"fmt"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/router/app"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	go shutdown(cancel, quit)

	if len(os.Args) != 2 {
		panic("usage: router <workspace>")
	}
	workSpace := os.Args[1]
	if err := os.Chdir(workSpace); err != nil {
		panic(err)
	}

	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		panic(err)
	}
	cfg.WorkSpace = workSpace
	workspace, _ := os.Getwd()
	fmt.Printf("work space: %s\n", workspace)

	//
	t := time.Now()
	t_str := t.Format("2006-01-02")
	dir := fmt.Sprintf("./%s_log/", t_str)
	os.Mkdir(dir, os.ModePerm)
	config.LogPath = dir

	r, err := app.NewRouter(ctx, cfg)
	if err != nil {
		panic(err)
	}
	if err := r.Service(); err != nil {
		fmt.Printf("router exit: %v\n", err)
		os.Exit(1)
	}
}

func shutdown(cancel context.CancelFunc, quit <-chan os.Signal) {
	osCall := <-quit
	fmt.Printf("System call: %v, router is shutting down......\n", osCall)
	cancel()
}
