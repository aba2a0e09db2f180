package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caffeinatedprojects/networkr-companion/internal/config"
	"github.com/caffeinatedprojects/networkr-companion/internal/logging"
	"github.com/caffeinatedprojects/networkr-companion/internal/pinger"
)

func main() {
	base := flag.String("url", "http://localhost:9096/pressillion/v1", "health namespace base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	signOnly := flag.Bool("sign", false, "print ts and sig for the current time and exit")
	flag.Parse()

	logger := logging.New("healthping")

	site := config.EnvSite()
	if !site.Configured() {
		logger.Fatalf("%s and %s must be set", config.EnvWebsiteID, config.EnvSecret)
	}

	client := pinger.New(*base, site)

	if *signOnly {
		ts, sig := client.SignNow()
		fmt.Printf("ts=%s\nsig=%s\n", ts, sig)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := client.Check(ctx)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
	if err != nil {
		logger.Fatalf("check %s: %v", *base, err)
	}
}
