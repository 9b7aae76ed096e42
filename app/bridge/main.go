package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/bodebridge/vxi11-bridge/app/cmd"
	"github.com/bodebridge/vxi11-bridge/pkg/meta"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
	"github.com/bodebridge/vxi11-bridge/pkg/vxi11"
)

func main() {
	a := cli.NewApp()
	a.Name = "vxi11-bridge"
	a.Usage = "answer an oscilloscope's Bode plot requests with a real signal generator"
	a.Version = meta.GetVersion(vxi11.Identification).Version
	a.Before = func(c *cli.Context) error {
		util.SetUpLogger(c.GlobalBool("debug"), c.GlobalBool("trace"))
		return nil
	}
	a.Flags = []cli.Flag{
		cli.BoolFlag{
			Name: "debug",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "log every RPC record as a hex dump",
		},
	}
	a.Commands = []cli.Command{
		cmd.ServeCmd(),
		cmd.ResourcesCmd(),
		cmd.VersionCmd(),
	}
	if err := a.Run(os.Args); err != nil {
		logrus.Fatal("Error when executing command: ", err)
	}
}
