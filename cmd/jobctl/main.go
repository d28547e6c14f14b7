// jobctl 以命令列送出或查詢自動化工作
//
//	jobctl submit -kind deposit -platform milkyway -player P1 -amount 50 -by ops-1
//	jobctl get -id <job_id>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/JoeShih716/go-platform-automation/api/automationrpc"
	"github.com/JoeShih716/go-platform-automation/internal/config"
	intake_sdk "github.com/JoeShih716/go-platform-automation/internal/grpc_client/intake"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	addr := os.Getenv(config.EnvIntakeAddr)
	if addr == "" {
		addr = "localhost:8090"
	}

	var err error
	switch os.Args[1] {
	case "submit":
		err = submit(addr, os.Args[2:])
	case "get":
		err = get(addr, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jobctl submit|get [flags]")
}

func submit(addr string, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	req := &automationrpc.SubmitJobRequest{}
	fs.StringVar(&req.Kind, "kind", "", "deposit | withdraw | bonus_claim")
	fs.StringVar(&req.Platform, "platform", "", "gamevault | milkyway | orionstars")
	fs.StringVar(&req.PlayerRef, "player", "", "player reference")
	fs.StringVar(&req.Amount, "amount", "", "amount for deposit/withdraw")
	fs.StringVar(&req.BonusId, "bonus", "", "bonus id for bonus_claim")
	fs.StringVar(&req.RequestedBy, "by", "", "requesting staff id")
	fs.StringVar(&req.Priority, "priority", "", "high | default")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withClient(addr, func(ctx context.Context, c *intake_sdk.Client) error {
		id, err := c.Submit(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	})
}

func get(addr string, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "job id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	return withClient(addr, func(ctx context.Context, c *intake_sdk.Client) error {
		job, err := c.GetJob(ctx, *id)
		if err != nil {
			return err
		}
		out := map[string]any{"job": job}
		if rec, err := c.GetRecord(ctx, *id); err == nil {
			out["record"] = rec
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	})
}

func withClient(addr string, fn func(ctx context.Context, c *intake_sdk.Client) error) error {
	conn, err := intake_sdk.Dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return fn(ctx, intake_sdk.NewClient(conn))
}
