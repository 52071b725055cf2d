// booking is the terminal client of the ticket API.
//
// Interactive mode (default) shows the flight list and the purchase form.
// Headless mode (--flight) buys one ticket with the details given on the
// command line and prints the outcome, which makes it usable from scripts.
// --ticket prints the document URL of a ticket bought earlier.
package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/meetupaws/flight_ticket_booking/booking/internal/api"
	"github.com/meetupaws/flight_ticket_booking/booking/internal/captcha"
	"github.com/meetupaws/flight_ticket_booking/booking/internal/catalog"
	"github.com/meetupaws/flight_ticket_booking/booking/internal/purchase"
	"github.com/meetupaws/flight_ticket_booking/booking/internal/tui"
)

type options struct {
	apiBase      string
	siteKey      string
	captchaPage  string
	captchaJS    string
	logOutput    string
	logLevel     string
	timeout      time.Duration
	flight       string
	name         string
	email        string
	captchaToken string
	ticket       string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	opts := options{}
	flagSet := pflag.NewFlagSet("booking", pflag.ContinueOnError)
	flagSet.StringVar(&opts.apiBase, "api-base", api.DefaultBaseURL, "ticket API base URL")
	flagSet.StringVar(&opts.siteKey, "site-key", captcha.DefaultSiteKey, "SmartCaptcha site key")
	flagSet.StringVar(&opts.captchaPage, "captcha-page", "", "page where the challenge can be solved")
	flagSet.StringVar(&opts.captchaJS, "captcha-script", captcha.DefaultScriptURL, "SmartCaptcha widget script URL")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flagSet.DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP timeout per request")
	flagSet.StringVar(&opts.flight, "flight", "", "buy a ticket for this flight id without the interactive UI")
	flagSet.StringVar(&opts.name, "name", "", "passenger name (headless mode)")
	flagSet.StringVar(&opts.email, "email", "", "passenger e-mail (headless mode)")
	flagSet.StringVar(&opts.captchaToken, "captcha-token", "", "solved challenge token (headless mode)")
	flagSet.StringVar(&opts.ticket, "ticket", "", "print the document URL of an issued ticket and exit")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	log, closeLog, err := newLogger(opts.logOutput, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpClient := &http.Client{Timeout: opts.timeout}
	client := api.NewClient(opts.apiBase, httpClient, log)
	loader := catalog.NewLoader(client, log)
	widget := captcha.NewSmartCaptcha(httpClient, opts.captchaJS, opts.captchaPage)
	controller := purchase.NewController(client, widget, log)
	captchaOpts := captcha.Options{
		SiteKey:    opts.siteKey,
		MountPoint: captcha.MountPoint,
		Visible:    true,
	}

	if opts.ticket != "" {
		ticket, err := client.Ticket(ctx, opts.ticket)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, ticket.TicketURL)
		return nil
	}
	if opts.flight != "" {
		return headless(ctx, stdout, opts, loader, widget, controller, captchaOpts, log)
	}

	model := tui.New(ctx, loader, controller, widget, captchaOpts, log)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// headless loads the catalog and the widget side by side, then performs a
// single purchase.
func headless(
	ctx context.Context,
	stdout io.Writer,
	opts options,
	loader *catalog.Loader,
	widget *captcha.SmartCaptcha,
	controller *purchase.Controller,
	captchaOpts captcha.Options,
	log logrus.FieldLogger,
) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		// A missing catalog only costs the flight lookup below.
		loader.Load(groupCtx)
		return nil
	})
	group.Go(func() error {
		captcha.BindWait(groupCtx, widget, captchaOpts, func(id string) bool { return true }, log)
		return nil
	})
	group.Wait()

	if f, ok := loader.Find(opts.flight); ok {
		fmt.Fprintf(stdout, "Flight %s %s → %s\n", f.Number, f.Departure, f.Arrival)
	}
	widget.SetToken(opts.captchaToken)
	controller.SelectFlight(opts.flight)
	controller.SetPassenger(opts.name, opts.email)

	state := controller.SubmitAndWait(ctx)
	fmt.Fprintln(stdout, controller.Message().String())
	if state != purchase.Succeeded {
		return errors.Errorf("purchase %s", state)
	}
	return nil
}

// newLogger logs to path, or nowhere when path is empty since the terminal
// belongs to the UI.
func newLogger(path string, level string) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(parsed)

	if path == "" {
		logger.SetOutput(ioutil.Discard)
		return logger, func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log output")
	}
	logger.SetOutput(file)
	return logger, func() { file.Close() }, nil
}
