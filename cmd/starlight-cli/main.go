package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/eternalApril/starlight/internal/client"
	"github.com/eternalApril/starlight/internal/config"
	"github.com/eternalApril/starlight/internal/logger"
	"github.com/eternalApril/starlight/internal/resp"
	"go.uber.org/zap"
)

func main() {
	addrFlag := flag.String("addr", "", "server address, overrides config (host:port)")
	inspectFlag := flag.Bool("inspect", false, "decode raw protocol bytes from stdin and pretty-print them, no connection")
	flag.Parse()

	// Inspect mode works offline on a captured buffer, so parse errors
	// can point at the exact offending bytes.
	if *inspectFlag {
		os.Exit(runInspect(os.Stdin, os.Stdout, os.Stderr))
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	addr := cfg.Server.Addr()
	if *addrFlag != "" {
		addr = *addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, addr, client.Options{
		DialTimeout:  cfg.Client.DialTimeout,
		ReadTimeout:  cfg.Client.ReadTimeout,
		WriteTimeout: cfg.Client.WriteTimeout,
	}, log)
	if err != nil {
		log.Error("connect failed", zap.String("addr", addr), zap.Error(err))
		os.Exit(1)
	}
	defer c.Close() //nolint:errcheck

	// One-shot mode: starlight-cli LLEN mylist
	if flag.NArg() > 0 {
		if !runCommand(ctx, c, strings.Join(flag.Args(), " ")) {
			os.Exit(1)
		}
		return
	}

	runREPL(ctx, c, addr)
}

func runREPL(ctx context.Context, c *client.Client, addr string) {
	fmt.Printf("Connected to %s\n", addr)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("starlight> ")
		if !in.Scan() {
			fmt.Println()
			return
		}

		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			return
		}

		runCommand(ctx, c, line)

		if ctx.Err() != nil {
			return
		}
	}
}

// runCommand sends one command line and prints the reply. Returns false
// when the server reported a failure or the exchange itself broke.
func runCommand(ctx context.Context, c *client.Client, line string) bool {
	reply, err := c.Send(ctx, line)
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stderr, "(error) connection closed by server")
		} else {
			fmt.Fprintf(os.Stderr, "(error) %v\n", err)
		}
		return false
	}

	if reply.Failed {
		fmt.Printf("(error) %s\n", reply.Message)
		return false
	}

	fmt.Println(renderValue(reply.Value))
	return true
}

// runInspect decodes one complete message of raw wire bytes and prints
// it, or a caret diagnostic under the byte that broke the parse.
func runInspect(in io.Reader, out, errOut io.Writer) int {
	raw, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(errOut, "(error) %v\n", err)
		return 1
	}

	value, err := resp.Decode(raw)
	if err != nil {
		fmt.Fprintln(errOut, resp.Annotate(err, raw))
		return 1
	}

	fmt.Fprintln(out, renderValue(value))
	return 0
}

// renderValue formats a decoded value for the terminal, one line per
// scalar and numbered lines for arrays. Nested arrays continue under
// their element number the way redis-cli prints them.
func renderValue(v resp.Value) string {
	if v.IsNull {
		return "(nil)"
	}

	switch v.Type {
	case resp.TypeSimpleString:
		return string(v.String)
	case resp.TypeInteger:
		return "(integer) " + strconv.FormatInt(v.Integer, 10)
	case resp.TypeBulkString:
		return strconv.Quote(string(v.String))
	case resp.TypeError:
		return "(error) " + string(v.String)
	case resp.TypeArray:
		if len(v.Array) == 0 {
			return "(empty array)"
		}
		var b strings.Builder
		for i, el := range v.Array {
			prefix := strconv.Itoa(i+1) + ") "
			lines := strings.ReplaceAll(renderValue(el), "\n", "\n"+strings.Repeat(" ", len(prefix)))
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(prefix)
			b.WriteString(lines)
		}
		return b.String()
	}
	return fmt.Sprintf("(unknown type %q)", v.Type)
}
