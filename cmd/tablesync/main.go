package main

import (
	"context"
	"niopendata/cmd/tablesync/commands"
	"niopendata/lib/serviceutil"
	"niopendata/lib/telemetry"
	"os"
	"time"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "tablesync")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tel.Shutdown(shutdownCtx)

	if err != nil {
		os.Exit(1)
	}
}
