package main

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/akarpov/minetty/internal/field"
	"github.com/akarpov/minetty/internal/game"
	"github.com/akarpov/minetty/internal/move"
)

var log = logrus.New()

var (
	seed     uint64
	mines    int
	showSeed bool
	debug    bool
)

func init() {
	flag.Uint64Var(&seed, "s", 0, "seed for mines generation")
	flag.IntVar(&mines, "m", -1, "amount of mines to place, default is width*height/10")
	flag.BoolVar(&showSeed, "S", false, "show used seed")
	flag.BoolVar(&debug, "d", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"usage: %s [-dS] [-s seed] [-m mines] [width height]\n", os.Args[0])
		flag.PrintDefaults()
	}
}

// osSeed is the fallback entropy source when -s is not given.
func osSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func parseSize(args []string) (width, height int, err error) {
	width, height = 10, 10
	switch len(args) {
	case 0:
	case 2:
		if width, err = strconv.Atoi(args[0]); err != nil || width < 1 {
			return 0, 0, fmt.Errorf("width is invalid: %s", args[0])
		}
		if height, err = strconv.Atoi(args[1]); err != nil || height < 1 {
			return 0, 0, fmt.Errorf("height is invalid: %s", args[1])
		}
	default:
		return 0, 0, errors.New("you should pass exactly 2 positional arguments")
	}
	return width, height, nil
}

func play(sess *game.Session, in io.ByteReader, out io.Writer) error {
	parser := move.NewParser(in)
	for {
		fmt.Fprint(out, sess.Field.String())

		switch sess.Result() {
		case field.Won:
			fmt.Fprintln(out, "You won! UwU")
			return nil
		case field.Lost:
			fmt.Fprintln(out, "You lost :<")
			return nil
		default:
			x, y := sess.Field.Cursor()
			fmt.Fprintf(out, "Your current location is (%d, %d)\n", x+1, y+1)
		}

		m, err := parser.Next()
		if err != nil {
			return err
		}
		if err := sess.Apply(m); err != nil {
			log.Warn(err)
		}
	}
}

func main() {
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
		field.Log.SetLevel(logrus.DebugLevel)
	}

	width, height, err := parseSize(flag.Args())
	if err != nil {
		log.Error(err)
		flag.Usage()
		os.Exit(1)
	}

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "s" {
			seedSet = true
		}
	})
	if !seedSet {
		if seed, err = osSeed(); err != nil {
			log.Fatal("unable to source a seed: ", err)
		}
	}
	if showSeed {
		log.Infof("seed is %d", seed)
	}

	params := game.Params{Width: width, Height: height, MineCount: mines}
	if mines < 0 {
		params.MineCount = params.DefaultMineCount()
	}

	sess, err := game.New(params, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		log.Error(err)
		flag.Usage()
		os.Exit(1)
	}

	if err := play(sess, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		log.Fatal("cannot read input: ", err)
	}
}
