package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/fs"
	"github.com/fwojciec/doctext/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Resources *sqlite.ResourceService
	Files     *fs.Store
	Processor doctext.Processor
	Logger    *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Add       AddCmd       `cmd:"" help:"Register a local document and extract its text"`
	Process   ProcessCmd   `cmd:"" help:"Run extraction for a stored resource"`
	Ingest    IngestCmd    `cmd:"" help:"Fetch and process every document a JSON manifest references"`
	Resources ResourcesCmd `cmd:"" help:"List stored resources"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a resource and its payload"`
	Serve     ServeCmd     `cmd:"" help:"Serve the process_document action endpoint"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Path    string `arg:"" help:"Local document file"`
	Dataset string `short:"d" required:"" help:"Dataset the resource belongs to"`
	Name    string `short:"n" help:"Resource name (defaults to the file name)"`
	Format  string `short:"f" help:"Declared format label (may be blank or wrong)"`
	NoText  bool   `help:"Register only; skip extraction"`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct {
	ID string `arg:"" help:"Resource ID"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Path    string `arg:"" help:"Manifest JSON file"`
	Dataset string `short:"d" required:"" help:"Dataset fetched documents belong to"`
}

// ResourcesCmd is the "resources" subcommand.
type ResourcesCmd struct {
	Dataset string `short:"d" help:"Filter by dataset"`
	Limit   int    `short:"l" default:"50" help:"Maximum resources to list"`
	Offset  int    `help:"Resources to skip"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Resource ID"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}
