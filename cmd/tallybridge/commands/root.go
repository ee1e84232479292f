package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tallybridge/internal/bridge"
	"tallybridge/internal/config"
	"tallybridge/internal/observability"
	"tallybridge/internal/tally"
)

var (
	configPath string
	hostFlag   string
	portFlag   int
	dialect    string
	company    string
	limit      int
	verbose    bool

	client   *tally.Client
	notifier *bridge.Notifier
	drained  chan struct{}
)

func Execute() error {
	root := &cobra.Command{
		Use:   "tallybridge",
		Short: "Query a legacy ERP over its XML-over-HTTP protocol",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.InitLogger("tallybridge", verbose)

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if hostFlag != "" {
				cfg.Host = hostFlag
			}
			if portFlag != 0 {
				cfg.Port = portFlag
			}
			if dialect != "" {
				cfg.Dialect = dialect
			}
			if company != "" {
				cfg.Company = company
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			d, err := tally.ParseDialect(cfg.Dialect)
			if err != nil {
				return err
			}
			client = tally.NewClient(tally.Options{
				Endpoint: cfg.Endpoint(),
				Timeout:  cfg.Timeout(),
				Dialect:  d,
				Company:  cfg.Company,
			})

			notifier = bridge.New(64)
			drained = make(chan struct{})
			go drainNotifier()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if notifier != nil {
				notifier.Close()
				<-drained
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (TOML)")
	root.PersistentFlags().StringVar(&hostFlag, "host", "", "ERP host (overrides config)")
	root.PersistentFlags().IntVar(&portFlag, "port", 0, "ERP port (overrides config)")
	root.PersistentFlags().StringVar(&dialect, "dialect", "", "filter dialect: stringcontains, infix, instr")
	root.PersistentFlags().StringVar(&company, "company", "", "current company context")
	root.PersistentFlags().IntVarP(&limit, "limit", "n", 10, "max records to return")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(companiesCmd(), ledgersCmd())
	return root.Execute()
}

// drainNotifier is the consumer side of the UI bridge. Without a
// desktop shell attached the events land in the log.
func drainNotifier() {
	defer close(drained)
	for ev := range notifier.Events() {
		switch ev.Kind {
		case bridge.StatusChange:
			log.Info().Str("status", ev.Text).Msg("bridge: status")
		case bridge.LogLine:
			log.Info().Msg(ev.Text)
		case bridge.QrImage:
			log.Info().Int("bytes", len(ev.Image)).Msg("bridge: qr image")
		}
	}
}
