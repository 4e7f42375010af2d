package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dummyfinance/nftd/nft"
	"github.com/dummyfinance/nftd/store"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "nftd",
		Usage: "NFT registry daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "~/.nftd/data", Usage: "database directory path"},
			&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Value: "127.0.0.1:7749", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "name", Value: "Dummy NFTs", Usage: "collection name, used on first run"},
			&cli.StringFlag{Name: "symbol", Value: "DUMMY", Usage: "collection symbol, used on first run"},
			&cli.StringFlag{Name: "minter", Usage: "minter address, required on first run"},
			&cli.StringFlag{Name: "admin", Usage: "upgrade authority address, defaults to the minter"},
			&cli.DurationFlag{Name: "block-interval", Value: time.Second, Usage: "wall time per derived block height"},
			&cli.StringFlag{Name: "receive-webhook", Usage: "URL receiving send notifications"},
		},
		Action: runDaemon,
	}
	err := app.Run(os.Args)
	if err != nil {
		slog.Error("nftd terminated", "error", err)
		os.Exit(1)
	}
}

func runDaemon(c *cli.Context) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := store.OpenBadger(context.Background(), expandHome(c.String("dir")))
	if err != nil {
		return err
	}
	defer db.Close()

	contract := nft.New(db)
	initialized, err := contract.Initialized()
	if err != nil {
		return err
	}
	if !initialized {
		minter, err := nft.ValidateAddress(c.String("minter"))
		if err != nil {
			return fmt.Errorf("a valid --minter is required on first run: %w", err)
		}
		msg := &nft.InstantiateMsg{
			Name:   c.String("name"),
			Symbol: c.String("symbol"),
			Minter: minter,
		}
		err = contract.Instantiate(msg)
		if err != nil {
			return err
		}
		log.Info("contract instantiated", "name", msg.Name, "symbol", msg.Symbol, "minter", minter)
	}

	admin, err := resolveAdmin(c.String("admin"), db)
	if err != nil {
		return err
	}

	clock, err := NewClock(db, c.Duration("block-interval"))
	if err != nil {
		return err
	}

	var messenger Messenger = &LogMessenger{log: log}
	if url := c.String("receive-webhook"); url != "" {
		messenger = NewWebhookMessenger(url, log)
	}

	api := NewAPI(contract, clock, messenger, admin, log)
	srv := &http.Server{
		Addr:         c.String("listen"),
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	log.Info("nftd listening", "addr", srv.Addr)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func resolveAdmin(flag string, db *store.BadgerStore) (nft.Address, error) {
	if flag != "" {
		return nft.ValidateAddress(flag)
	}
	return db.ReadMinter()
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, _ := user.Current()
		path = filepath.Join(usr.HomeDir, path[2:])
	}
	return path
}
