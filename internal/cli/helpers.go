// Shared helpers for storekeeper commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/config"
	"github.com/mesh-intelligence/storekeeper/internal/images"
	"github.com/mesh-intelligence/storekeeper/internal/inventory"
	"github.com/mesh-intelligence/storekeeper/internal/logging"
	"github.com/mesh-intelligence/storekeeper/pkg/sqlite"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// app bundles what a command needs: the loaded config, the open store and
// the inventory service over it. The caller must defer Close.
type app struct {
	cfg    types.Config
	store  types.ProductStore
	svc    *inventory.Service
	images images.Provider
}

// openApp loads the configuration and opens the product store.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, userError(err)
	}
	log.WithField("config_dir", cfg.ConfigDir).WithField("data_dir", cfg.DataDir).Debug("configuration loaded")

	store, err := sqlite.Open(cfg.DBPath(), log)
	if err != nil {
		return nil, sysError(fmt.Errorf("open store: %w", err))
	}

	return &app{
		cfg:    cfg,
		store:  store,
		svc:    inventory.NewService(store, log),
		images: images.FileProvider{Dir: cfg.ImagePath()},
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// loadConfig reads config.yaml and the environment, applying the global
// flags. A config value that fails validation is a user error.
func loadConfig() (types.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigDir: flags.configDir,
		DataDir:   flags.dataDir,
		LogLevel:  flags.logLevel,
	})
	if err != nil {
		if isConfigInvalid(err) {
			return types.Config{}, userError(err)
		}
		return types.Config{}, sysError(fmt.Errorf("load config: %w", err))
	}
	return cfg, nil
}

func isConfigInvalid(err error) bool {
	return errors.Is(err, types.ErrDataDirEmpty) ||
		errors.Is(err, types.ErrDBFileEmpty) ||
		errors.Is(err, types.ErrLogLevelUnknown) ||
		errors.Is(err, types.ErrLogFormatUnknown)
}

// parseID parses a product id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Errorf("%w: %q", types.ErrInvalidID, arg))
	}
	return id, nil
}

// storeError classifies an error from the inventory service.
func storeError(op string, err error) error {
	var verr *inventory.ValidationError
	if errors.As(err, &verr) || errors.Is(err, types.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return userError(err)
	}
	return sysError(fmt.Errorf("%s: %w", op, err))
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

const timeLayout = "2006-01-02 15:04:05"

// printProduct writes one product in the human-readable detail layout.
func printProduct(w io.Writer, p *types.Product) {
	fmt.Fprintf(w, "ID:          %d\n", p.ID)
	fmt.Fprintf(w, "Name:        %s\n", p.Name)
	fmt.Fprintf(w, "Quantity:    %d\n", p.Quantity)
	fmt.Fprintf(w, "Price:       %s\n", formatPrice(p.Price))
	if p.Description != nil {
		fmt.Fprintf(w, "Description: %s\n", *p.Description)
	}
	if p.ImageURI != nil {
		fmt.Fprintf(w, "Image:       %s\n", *p.ImageURI)
	}
	fmt.Fprintf(w, "Created:     %s\n", p.CreatedAt.Local().Format(timeLayout))
}

// printProducts writes the listing as one row per product.
func printProducts(w io.Writer, products []types.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	fmt.Fprintf(w, "%-6s  %-30s  %9s  %12s  %s\n", "ID", "NAME", "QUANTITY", "PRICE", "CREATED")
	for _, p := range products {
		fmt.Fprintf(w, "%-6d  %-30s  %9d  %12s  %s\n",
			p.ID, truncate(p.Name, 30), p.Quantity, formatPrice(p.Price), p.CreatedAt.Local().Format(timeLayout))
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
