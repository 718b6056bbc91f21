package main

import (
	"context"
	"embed"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/MJE43/roulette-oracle-desktop/bindings"
	"github.com/MJE43/roulette-oracle-desktop/internal/applog"
	"github.com/MJE43/roulette-oracle-desktop/internal/config"
	"github.com/MJE43/roulette-oracle-desktop/internal/games"
	"github.com/MJE43/roulette-oracle-desktop/internal/livehttp"
	"github.com/MJE43/roulette-oracle-desktop/internal/session"
)

//go:embed all:frontend/dist
var assets embed.FS

const (
	appTitle = "Roulette Oracle"
	repoURL  = "https://github.com/MJE43/roulette-oracle-desktop"
)

var (
	appCtx   context.Context
	appCtxMu sync.RWMutex
)

func buildWindowsOptions() *windows.Options {
	return &windows.Options{
		BackdropType: windows.Mica,
		Theme:        windows.SystemDefault,
		CustomTheme: &windows.ThemeSettings{
			DarkModeTitleBar:  windows.RGB(9, 9, 11),
			DarkModeTitleText: windows.RGB(228, 228, 231),
			DarkModeBorder:    windows.RGB(39, 39, 42),
		},
		WindowClassName: "RouletteOracleWindow",
	}
}

func buildMacOptions() *mac.Options {
	return &mac.Options{
		TitleBar: mac.TitleBarDefault(),
		About: &mac.AboutInfo{
			Title:   appTitle,
			Message: "Spin tracker and pattern advisor for European roulette.\n\nAll analysis runs locally.",
		},
	}
}

func buildLinuxOptions() *linux.Options {
	return &linux.Options{
		WebviewGpuPolicy: linux.WebviewGpuPolicyOnDemand,
		ProgramName:      "roulette-oracle",
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("ORACLE_CONFIG"))
	if err != nil {
		applog.Setup(config.DefaultLogLevel, true)
		log.Fatal().Err(err).Msg("load config")
	}
	applog.Setup(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Str("go", runtime.Version()).Msg("starting " + appTitle)

	seeds, err := games.NewSeeds()
	if err != nil {
		log.Fatal().Err(err).Msg("seed simulator")
	}

	history := session.NewHistory(cfg.MaxSpins)
	emit := func(event string, data ...any) {
		withAppContext(func(ctx context.Context) {
			wruntime.EventsEmit(ctx, event, data...)
		})
	}

	var ingest *livehttp.Module
	if cfg.Ingest.Enabled {
		ingest = livehttp.NewModule(history, cfg.Ingest.Port, cfg.Ingest.Token, emit)
	}
	app := bindings.New(history, bindings.Options{Seeds: seeds, Emit: emit, Ingest: ingest})

	startup := func(ctx context.Context) {
		setAppContext(ctx)
		app.Startup(ctx)
		if ingest == nil {
			return
		}
		if err := ingest.Startup(ctx); err != nil {
			log.Error().Err(err).Msg("live ingest server failed to start")
		}
	}

	beforeClose := func(ctx context.Context) (prevent bool) {
		if ingest != nil {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := ingest.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("live ingest shutdown")
			}
		}
		setAppContext(nil)
		return false
	}

	if err := wails.Run(&options.App{
		Title:            appTitle,
		Width:            1200,
		Height:           820,
		MinWidth:         960,
		MinHeight:        700,
		BackgroundColour: &options.RGBA{R: 9, G: 9, B: 11, A: 255},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:     startup,
		OnBeforeClose: beforeClose,
		OnShutdown: func(ctx context.Context) {
			log.Info().Msg("application shutdown complete")
		},
		Menu:               buildAppMenu(app),
		Bind:               []interface{}{app},
		LogLevel:           logger.INFO,
		LogLevelProduction: logger.ERROR,
		ErrorFormatter: func(err error) any {
			if err == nil {
				return nil
			}
			return err.Error()
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId: "3f1b7c52-roulette-oracle",
			OnSecondInstanceLaunch: func(data options.SecondInstanceData) {
				log.Info().Strs("args", data.Args).Msg("second instance launch prevented")
			},
		},
		DragAndDrop: &options.DragAndDrop{
			DisableWebViewDrop: true,
		},
		Windows: buildWindowsOptions(),
		Mac:     buildMacOptions(),
		Linux:   buildLinuxOptions(),
	}); err != nil {
		log.Fatal().Err(err).Msg("wails run")
	}
}

func buildAppMenu(app *bindings.App) *menu.Menu {
	rootMenu := menu.NewMenu()

	if runtime.GOOS == "darwin" {
		if appMenu := menu.AppMenu(); appMenu != nil {
			rootMenu.Append(appMenu)
		}
	}

	sessionMenu := menu.NewMenu()
	sessionMenu.AddText("Simulate Spin", keys.CmdOrCtrl("s"), func(_ *menu.CallbackData) {
		if _, err := app.SimulateSpin(); err != nil {
			log.Error().Err(err).Msg("simulate spin")
		}
	})
	sessionMenu.AddText("Clear History", keys.Combo("k", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
		app.ClearHistory()
	})
	sessionMenu.AddSeparator()
	sessionMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		withAppContext(wruntime.Quit)
	})
	rootMenu.Append(menu.SubMenu("Session", sessionMenu))

	helpMenu := menu.NewMenu()
	helpMenu.AddText("Project Repository", nil, func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.BrowserOpenURL(ctx, repoURL)
		})
	})
	rootMenu.Append(menu.SubMenu("Help", helpMenu))

	return rootMenu
}

func setAppContext(ctx context.Context) {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()
	appCtx = ctx
}

func withAppContext(action func(context.Context)) {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()
	if ctx == nil {
		log.Debug().Msg("application context not initialised; dropping action")
		return
	}
	action(ctx)
}
