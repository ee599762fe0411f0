package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

func NewApp() *cli.App {

	app := cli.NewApp()
	app.Name = "dxid"
	app.Usage = "dxID Chain Decision Core Node"
	app.Action = func(c *cli.Context) error {
		return nil
	}
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	return app

}
