// Package cli implements the terminal front-end: each subcommand
// fetches through the API client, runs the shared derivation engines
// and prints a table. Nothing here owns state beyond one invocation.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"procure-desk/internal/api"
	"procure-desk/internal/bus"
	"procure-desk/internal/config"
	"procure-desk/internal/session"
	"procure-desk/internal/timeutil"
)

type App struct {
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
	bus    *bus.Bus
	out    io.Writer
	in     io.Reader
	refDay time.Time
}

// NewApp wires the client from config. A cached token is loaded when
// present; commands that need auth fail with a login hint otherwise.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	b := bus.New()

	var sess *session.Session
	if s, err := session.LoadFromFile(cfg.API.TokenFile); err == nil && s.Valid(timeutil.Now()) {
		sess = s
	}

	refDay := timeutil.Now()
	if cfg.Procurement.ReferenceDay != "" {
		if d, err := timeutil.ParseDateOnly(cfg.Procurement.ReferenceDay); err == nil {
			refDay = d
		} else {
			log.Warn("ignoring bad reference_day", zap.String("value", cfg.Procurement.ReferenceDay))
		}
	}

	return &App{
		cfg:    cfg,
		log:    log,
		client: api.New(cfg, sess, log, b),
		bus:    b,
		out:    os.Stdout,
		in:     os.Stdin,
		refDay: refDay,
	}
}

// Run dispatches a subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.runLogin(ctx, rest)
	case "pos":
		return a.runListPOs(ctx, rest)
	case "po":
		return a.runShowPO(ctx, rest)
	case "edit":
		return a.runEdit(ctx, rest)
	case "approvals":
		return a.runApprovals(ctx, rest)
	case "approve":
		return a.runApprove(ctx, rest)
	case "material-in":
		return a.runMaterialIn(ctx, rest)
	case "return":
		return a.runReturn(ctx, rest)
	case "vendors":
		return a.runVendors(ctx, rest)
	case "vendor-save":
		return a.runVendorSave(ctx, rest)
	case "shortage":
		return a.runShortage(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `procure - procurement ERP workbench

Commands:
  login        -user -pass                      obtain and cache a token
  pos          [-search -date -mrf-only -sort -page]   list purchase orders
  po           <po-number> [-search -sort -page]       drill into components
  edit         -po -component -qty [-date] [-yes]      stage and submit an edit
  approvals                                     list pending requisitions
  approve      -umi [-note -priority]           approve a requisition (head only)
  material-in  -mpn -qty                        confirm stock in from a backorder
  return       -umi -component -qty -reason     file a return
  vendors                                       list vendors
  vendor-save  -gstin -name [-address -pan ...] create or update a vendor
  shortage     -assembly                        BOM shortage report
  export       [-format pdf|xlsx] [-out FILE]   export purchase orders`)
}

// confirm asks for an explicit y/N before a write fires.
func (a *App) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(a.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
