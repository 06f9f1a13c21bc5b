package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type globals struct {
	Out io.Writer
}

type cli struct {
	Config   string      `short:"c" type:"path" help:"Path to the YAML configuration file."`
	Serve    serveCmd    `cmd:"" help:"Start the cabinet admin server."`
	Preview  previewCmd  `cmd:"" help:"Render a report from a manifest to HTML."`
	Encode   encodeCmd   `cmd:"" help:"Encode metric, chart or period tags into backend tokens."`
	Decode   decodeCmd   `cmd:"" help:"Decode backend tokens back into tags."`
	Schedule scheduleCmd `cmd:"" help:"Describe the delivery schedule of a manifest report."`
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("cabinetctl"),
		kong.Description("Cabinet admin server and report tooling."),
		kong.UsageOnError(),
		kong.Bind(&globals{Out: os.Stdout}),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run(&root)
	ctx.FatalIfErrorf(err)
}
