package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
)

type Config struct {
	Addr string // например ":8080", пусто — сервер не поднимаем
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.Service.HealthAddr}
}

func NewMux(state *service.State, metrics *service.Metrics, hub *service.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: был хотя бы один успешный цикл и нет серии сбоев
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		st := state.Status()
		resp := map[string]any{
			"ready":               state.Ready(),
			"uptimeSec":           int64(state.Uptime().Seconds()),
			"lastTickUnix":        unixOrZero(state.LastTick()),
			"variant":             st.Variant,
			"symbol":              st.Symbol,
			"price":               st.Price,
			"periodStartUnix":     unixOrZero(st.Counters.PeriodStart),
			"periodProfitPct":     st.Counters.Profit,
			"buySignals":          st.Counters.BuySignals,
			"sellSignals":         st.Counters.SellSignals,
			"consecutiveFailures": st.Failures,
			"wsSubscribers":       hub.Subscribers(),
		}
		if p := st.Position; p != nil {
			resp["position"] = map[string]any{
				"side":          p.Side.String(),
				"entry":         p.Entry,
				"entryTimeUnix": p.EntryTime.Unix(),
				"takeProfit":    p.TakeProfit,
				"stopLoss":      p.StopLoss,
				"unrealizedPct": st.Unrealized,
			}
		}

		data, err := sonic.Marshal(resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/ws", hub.ServeWS)

	return mux
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux) {
	if cfg.Addr == "" {
		logger.Info("[HEALTH] http disabled")
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("[HEALTH] listening on %s", ln.Addr())
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			service.NewMetrics,
			service.NewHub,
			NewConfig,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
