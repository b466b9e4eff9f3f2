// Command vendorctl drives the VendorHub client stores from the terminal:
// catalog inspection, sales and expense entry, totals and exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vendorhub/vendorhub/internal/app"
	"github.com/vendorhub/vendorhub/internal/imei"
	"github.com/vendorhub/vendorhub/internal/inventory"
	"github.com/vendorhub/vendorhub/internal/ledger"
	"github.com/vendorhub/vendorhub/internal/platform/api"
	"github.com/vendorhub/vendorhub/internal/platform/storage"
	"github.com/vendorhub/vendorhub/internal/shared"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: vendorctl <command> [flags]

commands:
  login         store the bearer credential (-token)
  logout        remove the stored credential
  products      list the vendor's products
  stats         catalog statistics
  history       recent inventory history events
  sale          record a sale (-product, -qty, -price, -method)
  expense       record an expense (-category, -amount, -description, -method)
  totals        server-side totals (-period day|week|month|year)
  local-totals  local approximate totals (-period)
  top           best-selling products (-limit)
  export-csv    product CSV export to stdout
  export-xlsx   transaction spreadsheet export to stdout
  imei          generate device identifiers (-count)`)
	os.Exit(2)
}

// uploadAdapter bridges the storage uploader onto the inventory port.
type uploadAdapter struct {
	uploader *storage.Uploader
}

func (a uploadAdapter) Upload(ctx context.Context, name string, data []byte, prefix string) (string, error) {
	return a.uploader.Upload(ctx, storage.File{Name: name, Data: data}, prefix)
}

// cli bundles the wired stores for subcommand handlers.
type cli struct {
	tokens    *api.TokenStore
	inventory *inventory.Store
	ledger    *ledger.Store
	printer   *message.Printer
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	tokens := api.NewTokenStore(cfg.CredentialsPath, logger)
	client := api.New(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, tokens, logger)
	defer func() { _ = client.Close() }()

	uploader := storage.New(storage.Config{
		BaseURL: cfg.StorageURL,
		Bucket:  cfg.StorageBucket,
		APIKey:  cfg.StorageKey,
		Timeout: cfg.UploadTimeout,
	}, logger)
	defer func() { _ = uploader.Close() }()

	invStore := inventory.NewStore(client, uploadAdapter{uploader}, inventory.StoreOptions{
		PageSize:        cfg.ProductPageSize,
		HistoryPageSize: cfg.HistoryPageSize,
		Images: inventory.ImageOptions{
			MaxEdge:     cfg.ImageMaxEdge,
			JPEGQuality: cfg.JPEGQuality,
			Concurrency: cfg.UploadConcurrency,
		},
	}, logger)

	c := &cli{
		tokens:    tokens,
		inventory: invStore,
		ledger:    ledger.NewStore(client, invStore, logger),
		printer:   message.NewPrinter(language.English),
	}

	if err := c.run(ctx, command, args); err != nil {
		logger.Error("command failed", slog.String("command", command), slog.Any("error", err))
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.login(args)
	case "logout":
		return c.tokens.Clear()
	case "products":
		return c.products(ctx)
	case "stats":
		return c.stats(ctx)
	case "history":
		return c.history(ctx)
	case "sale":
		return c.sale(ctx, args)
	case "expense":
		return c.expense(ctx, args)
	case "totals":
		return c.totals(ctx, args)
	case "local-totals":
		return c.localTotals(ctx, args)
	case "top":
		return c.top(ctx, args)
	case "export-csv":
		text, err := c.inventory.ExportCSV(ctx)
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	case "export-xlsx":
		fmt.Print(c.ledger.ExportExcel(ctx))
		return nil
	case "imei":
		return c.imei(args)
	default:
		usage()
		return nil
	}
}

func (c *cli) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	token := fs.String("token", "", "bearer credential issued by the marketplace")
	_ = fs.Parse(args)
	if *token == "" {
		return fmt.Errorf("login: -token is required")
	}
	return c.tokens.Save(*token)
}

func (c *cli) products(ctx context.Context) error {
	if err := c.inventory.LoadProducts(ctx); err != nil {
		return err
	}
	for _, p := range c.inventory.Products() {
		c.printer.Printf("%-24s %-14s %-30s qty=%d price=%.2f [%s]\n",
			p.ID, p.SKU, p.Name, p.Quantity, p.SellingPrice, p.StockStatus())
	}
	return nil
}

func (c *cli) stats(ctx context.Context) error {
	if err := c.inventory.LoadProducts(ctx); err != nil {
		return err
	}
	stats := c.inventory.Stats()
	c.printer.Printf("products:      %d\n", stats.Total)
	c.printer.Printf("total value:   %.2f\n", stats.TotalValue)
	c.printer.Printf("low stock:     %d\n", stats.LowStock)
	c.printer.Printf("out of stock:  %d\n", stats.OutOfStock)
	return nil
}

func (c *cli) history(ctx context.Context) error {
	if err := c.inventory.LoadHistory(ctx); err != nil {
		return err
	}
	for _, e := range c.inventory.History() {
		c.printer.Printf("%s %-12s product=%s delta=%+d %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Type, e.ProductID, e.QuantityChange, e.Note)
	}
	return nil
}

func (c *cli) sale(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sale", flag.ExitOnError)
	product := fs.String("product", "", "product identifier")
	qty := fs.Int("qty", 1, "quantity sold")
	price := fs.Float64("price", 0, "unit price override (0 uses the catalog price)")
	method := fs.String("method", string(ledger.PaymentCash), "payment method")
	customer := fs.String("customer", "", "customer name")
	_ = fs.Parse(args)

	// Sale pricing reads the inventory mirror, so load it first.
	if err := c.inventory.LoadProducts(ctx); err != nil {
		return err
	}
	tx, err := c.ledger.AddSale(ctx, ledger.SaleInput{
		Items:         []ledger.SaleItemInput{{ProductID: *product, Quantity: *qty, UnitPrice: *price}},
		PaymentMethod: ledger.PaymentMethod(*method),
		CustomerName:  *customer,
	})
	if err != nil {
		return err
	}
	c.printer.Printf("sale %s recorded: amount=%.2f profit=%.2f\n", tx.ID, tx.Amount, tx.ProfitAmount)
	return nil
}

func (c *cli) expense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expense", flag.ExitOnError)
	category := fs.String("category", string(ledger.ExpenseCustom), "expense category")
	amount := fs.Float64("amount", 0, "expense amount")
	description := fs.String("description", "", "what the money was spent on")
	method := fs.String("method", string(ledger.PaymentCash), "payment method")
	_ = fs.Parse(args)

	tx, err := c.ledger.AddExpense(ctx, ledger.ExpenseInput{
		Category:      ledger.ExpenseCategory(*category),
		Amount:        *amount,
		Description:   *description,
		PaymentMethod: ledger.PaymentMethod(*method),
	})
	if err != nil {
		return err
	}
	c.printer.Printf("expense %s recorded: amount=%.2f\n", tx.ID, tx.Amount)
	return nil
}

func parsePeriodFlag(args []string, name string) (shared.Period, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	period := fs.String("period", string(shared.PeriodMonth), "day, week, month or year")
	_ = fs.Parse(args)
	return shared.ParsePeriod(*period)
}

func (c *cli) totals(ctx context.Context, args []string) error {
	period, err := parsePeriodFlag(args, "totals")
	if err != nil {
		return err
	}
	totals := c.ledger.Totals(ctx, period)
	c.printTotals(totals)
	return nil
}

func (c *cli) localTotals(ctx context.Context, args []string) error {
	period, err := parsePeriodFlag(args, "local-totals")
	if err != nil {
		return err
	}
	if err := c.ledger.LoadTransactions(ctx); err != nil {
		return err
	}
	c.printTotals(c.ledger.LocalTotals(period, time.Time{}))
	return nil
}

func (c *cli) printTotals(t ledger.Totals) {
	c.printer.Printf("sales:    %.2f\n", t.Sales)
	c.printer.Printf("expenses: %.2f\n", t.Expenses)
	c.printer.Printf("profit:   %.2f\n", t.Profit)
}

func (c *cli) top(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	limit := fs.Int("limit", 5, "number of products to list")
	_ = fs.Parse(args)

	for i, seller := range c.ledger.TopSellers(ctx, *limit) {
		c.printer.Printf("%2d. %-30s sold=%d revenue=%.2f\n", i+1, seller.Name, seller.QuantitySold, seller.Revenue)
	}
	return nil
}

func (c *cli) imei(args []string) error {
	fs := flag.NewFlagSet("imei", flag.ExitOnError)
	count := fs.Int("count", 1, "number of identifiers to generate")
	_ = fs.Parse(args)

	ids, err := imei.GenerateBatch(*count)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
