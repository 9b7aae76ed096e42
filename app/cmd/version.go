package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/bodebridge/vxi11-bridge/pkg/meta"
	"github.com/bodebridge/vxi11-bridge/pkg/vxi11"
)

func VersionCmd() cli.Command {
	return cli.Command{
		Name: "version",
		Action: func(c *cli.Context) {
			if err := version(c); err != nil {
				logrus.Fatalln("Error running version command:", err)
			}
		},
	}
}

func version(c *cli.Context) error {
	output, err := json.MarshalIndent(meta.GetVersion(vxi11.Identification), "", "\t")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, string(output))
	return nil
}
