package main

import (
	"os"

	"git.lost.host/meutraa/vsrg/internal/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	app := kingpin.New("vsrg", "Vertical scrolling rhythm game for the terminal.")
	cfg := config.Register(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	level, err := log.ParseLevel(cfg.LogLevel)
	if nil != err {
		log.Fatalln(err)
	}
	log.SetLevel(level)
	// stdout belongs to the playing field
	log.SetOutput(os.Stderr)

	if err := run(cfg); nil != err {
		log.Fatalln(err)
	}
}

func run(cfg *config.Config) error {
	p := &Program{Config: cfg}
	if err := p.Init(os.Stdin, os.Stdout); nil != err {
		return err
	}
	defer p.Close()

	if err := p.Load(); nil != err {
		return err
	}
	result, err := p.Run()
	if nil != err {
		return err
	}
	return p.Finish(os.Stdout, result)
}
