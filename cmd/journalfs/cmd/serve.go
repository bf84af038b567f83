package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairjournal/journalfs/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journalfs HTTP API",
	Long: `Serve the journalfs HTTP API:

  POST /v1/fs/blob/upload           upload a blob, as the multipart field "blob"
  POST /v1/fs/update/apply          apply a signed update: {"update": {...}}
  GET  /v1/fs/user/get-update-id    the last sequence number of ?address=
  GET  /v1/fs/blob/get-articles     the articles of ?userAddress=
  GET  /v1/fs/blob/get-article      the article ?slug= of ?userAddress=
  GET  /metrics                     prometheus metrics
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := newLogger(journalConfig)
		defer func() { _ = logger.Sync() }()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		svc, err := openService(ctx, journalConfig, logger, reg)
		if err != nil {
			wrapFatalln("open service", err)
			return
		}
		defer func() { _ = svc.Close() }()

		srv, err := web.NewServer(web.ServerParams{Service: svc, Logger: logger, Gatherer: reg})
		if err != nil {
			wrapFatalln("create server", err)
			return
		}

		listen := viper.GetString("listen")
		server := &http.Server{
			Addr:              listen,
			Handler:           web.InitRouter(srv),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = server.Shutdown(sctx)
		}()

		logger.Info("serving",
			zap.String("listen", listen),
			zap.String("project", svc.ProjectName()),
			zap.Int64("max_blob_size", svc.MaxBlobSize()),
			zap.String("backend", journalConfig.Backend.Kind),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			wrapFatalln("serve", err)
			return
		}
		logger.Info("server stopped")
	},
}

func init() {
	addListenFlag(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
