// Command ntrucli generates keys, signs and verifies messages, writes
// parameter files and manages a key store.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli"

	ntru "ntrusign/ntru"
	"ntrusign/ntru/keys"
)

var flagDir = cli.StringFlag{
	Name:  "dir, d",
	Value: keys.DefaultDir,
	Usage: "directory holding public.json, private.json and signature.json",
}

var flagParams = cli.StringFlag{
	Name:  "params, p",
	Usage: "parameter file (.json or TOML / KEY = value); built-in default set when empty",
}

var flagSeed = cli.Int64Flag{
	Name:  "seed",
	Usage: "deterministic RNG seed (testing only); the OS source is used when unset",
}

var flagMessage = cli.StringFlag{
	Name:  "m",
	Usage: "message string",
}

var flagInput = cli.StringFlag{
	Name:  "in, i",
	Usage: "read the message from this file",
}

var flagDB = cli.StringFlag{
	Name:  "db",
	Value: "ntru_keys/keystore.db",
	Usage: "key store database",
}

var cmdGen = cli.Command{
	Name:   "gen",
	Usage:  "generate a key pair and write <dir>/{public,private}.json",
	Action: runGen,
	Flags:  []cli.Flag{flagDir, flagParams, flagSeed},
}

var cmdSign = cli.Command{
	Name:   "sign",
	Usage:  "sign a message and write <dir>/signature.json",
	Action: runSign,
	Flags: []cli.Flag{
		flagDir, flagSeed, flagMessage, flagInput,
		cli.StringFlag{
			Name:  "bin, b",
			Usage: "also write the compact SGN2 encoding to this path",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "verbose: print attempt statistics and norms",
		},
	},
}

var cmdVerify = cli.Command{
	Name:   "verify",
	Usage:  "verify <dir>/signature.json, or a SGN2 file against <dir>/public.json",
	Action: runVerify,
	Flags: []cli.Flag{
		flagDir, flagMessage, flagInput,
		cli.StringFlag{
			Name:  "bin, b",
			Usage: "verify this SGN2 file instead of the JSON bundle (needs -m or -in)",
		},
		cli.BoolFlag{
			Name:  "trusted",
			Usage: "check the bundle against <dir>/public.json instead of its embedded key",
		},
	},
}

var cmdParams = cli.Command{
	Name:   "params",
	Usage:  "write a parameter set to a file",
	Action: runParams,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Value: "default",
			Usage: "toy or default",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "params.toml",
			Usage: "output file; .json writes JSON, anything else TOML",
		},
	},
}

var cmdStore = cli.Command{
	Name:  "store",
	Usage: "manage the key store",
	Subcommands: []cli.Command{
		{
			Name:   "put",
			Usage:  "import the key pair of <dir> under a name",
			Action: runStorePut,
			Flags:  []cli.Flag{flagDB, flagDir, cli.StringFlag{Name: "name, n", Usage: "entry name"}},
		},
		{
			Name:   "export",
			Usage:  "write a stored key pair to <dir>",
			Action: runStoreExport,
			Flags:  []cli.Flag{flagDB, flagDir, cli.StringFlag{Name: "name, n", Usage: "entry name"}},
		},
		{
			Name:   "list",
			Usage:  "list stored key pairs and signatures",
			Action: runStoreList,
			Flags:  []cli.Flag{flagDB},
		},
		{
			Name:   "sign",
			Usage:  "sign with a stored key pair and store the bundle",
			Action: runStoreSign,
			Flags: []cli.Flag{
				flagDB, flagSeed, flagMessage, flagInput,
				cli.StringFlag{Name: "name, n", Usage: "key entry name"},
				cli.StringFlag{Name: "id", Usage: "signature id (defaults to <name>/<timestamp>)"},
			},
		},
		{
			Name:   "verify",
			Usage:  "verify every stored signature",
			Action: runStoreVerify,
			Flags: []cli.Flag{
				flagDB,
				cli.IntFlag{Name: "workers, w", Value: 4, Usage: "concurrent verifications"},
			},
		},
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "ntrucli"
	app.Usage = "NTRUSign-style lattice signatures"
	app.Commands = []cli.Command{cmdGen, cmdSign, cmdVerify, cmdParams, cmdStore}
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "trace key generation and signing to stderr",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool("debug") {
			ntru.SetDebug(true)
		}
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}
