package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pantryhub/pantry/internal/apiclient"
	"github.com/pantryhub/pantry/internal/config"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/session"
	"github.com/spf13/cobra"
)

// app holds what every command needs. It is built once per invocation in
// the root command's PersistentPreRunE.
type app struct {
	out    io.Writer
	in     *bufio.Reader
	store  *session.FileStore
	client *apiclient.Client
}

func newRootCommand(out io.Writer, in io.Reader) *cobra.Command {
	application := &app{out: out, in: bufio.NewReader(in)}

	root := &cobra.Command{
		Use:           "pantry",
		Short:         "Manage recipes, inventories and shopping lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			application.store = session.NewFileStore(cfg.SessionFile, cfg.SessionKey)
			application.client = apiclient.New(cfg.APIURL, apiclient.WithRetry(cfg.Retries))
			return nil
		},
	}
	root.SetOut(out)

	root.AddCommand(
		application.registerCommand(),
		application.loginCommand(),
		application.logoutCommand(),
		application.whoamiCommand(),
		application.ingredientsCommand(),
		application.recipesCommand(),
		application.inventoryCommand(),
		application.listsCommand(),
		application.listCommand(),
		application.generateCommand(),
		application.itemCommand(),
	)
	return root
}

// session loads the saved session and points the client at its token.
func (application *app) session() (*session.Session, error) {
	current, err := application.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, fmt.Errorf("%w: run pantry login first", err)
	}
	if err != nil {
		return nil, err
	}
	application.client.SetToken(current.Token)
	return current, nil
}

func (application *app) shoppingService() *services.ShoppingService {
	return services.NewShoppingService(application.client)
}

// prompt reads one line, used for passwords not given as flags.
func (application *app) prompt(label string) (string, error) {
	fmt.Fprintf(application.out, "%s: ", label)
	line, err := application.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runTracked submits op through a tracker seeded with the stored list. Each
// invocation holds one ticket, so nothing supersedes it here; ordering across
// invocations rests on the server applying each line write as it arrives.
func (application *app) runTracked(ctx context.Context, current *session.Session, listID string, op services.ListOperation) error {
	list, err := application.shoppingService().Get(ctx, current.User.ID, listID)
	if err != nil {
		return err
	}
	tracker := services.NewListTracker(current.Sequencer(), list)
	if _, err := tracker.Submit(ctx, op); err != nil {
		return err
	}

	// Item ids are assigned by the server, so show the stored list.
	stored, err := application.shoppingService().Get(ctx, current.User.ID, listID)
	if err != nil {
		return err
	}
	return application.printList(ctx, stored)
}
