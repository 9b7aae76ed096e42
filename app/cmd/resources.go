package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
)

func ResourcesCmd() cli.Command {
	return cli.Command{
		Name:  "resources",
		Usage: "list locally attached instrument resources",
		Action: func(c *cli.Context) {
			if err := listResources(c); err != nil {
				logrus.WithError(err).Fatalf("Error running resources command")
			}
		},
	}
}

func listResources(c *cli.Context) error {
	resources, err := instrument.ListResources()
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		logrus.Info("No serial or USB-TMC instruments found")
		return nil
	}
	for _, r := range resources {
		fmt.Fprintln(c.App.Writer, r)
	}
	return nil
}
