// main.go -- ping one IPv4 host over a raw ICMP socket

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/RETCY-unix/My-first-Ping-tool/pkg/packet"
	"github.com/RETCY-unix/My-first-Ping-tool/pkg/pinger"
)

// largest payload that fits a 20 byte IPv4 header and the echo header
const maxPayload = 65535 - 20 - packet.HeaderLen

var Z = path.Base(os.Args[0])

func main() {
	var help, ver, verbose, strict bool
	var interval, timeout time.Duration
	var size int

	fs := pflag.NewFlagSet(Z, pflag.ExitOnError)
	fs.DurationVarP(&interval, "interval", "i", pinger.DefaultInterval, "Wait `D` between probes")
	fs.DurationVarP(&timeout, "timeout", "W", pinger.DefaultTimeout, "Wait at most `D` for each reply")
	fs.IntVarP(&size, "size", "s", packet.DefaultPayloadSize, "Send `N` data bytes in each probe")
	fs.BoolVarP(&strict, "strict", "", false, "End a probe at the first packet that is not its reply")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Log every packet that is thrown away")
	fs.BoolVarP(&help, "help", "h", false, "Show this help message and exit")
	fs.BoolVarP(&ver, "version", "", false, "Show program version and exit")

	err := fs.Parse(os.Args[1:])
	if err != nil {
		Die("%s", err)
	}

	if help {
		usage(fs, "")
	}

	if ver {
		fmt.Printf("%s: %s [%s]\n", Z, ProductVersion, RepoVersion)
		os.Exit(0)
	}

	args := fs.Args()
	if len(args) != 1 {
		usage(fs, "need exactly one host")
	}

	if size < 0 || size > maxPayload {
		Die("invalid size %d: must be in [0, %d]", size, maxPayload)
	}
	if timeout <= 0 {
		Die("invalid timeout %s", timeout)
	}
	if interval < 0 {
		Die("invalid interval %s", interval)
	}

	host := args[0]
	dst, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		Die("cannot resolve %s: Unknown host", host)
	}

	conn, err := pinger.Listen()
	if err != nil {
		Warn("%s", err)
		Die("Socket creation failed. Are you running as root?\nTry: sudo %s %s", Z, host)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := pinger.NewClient(conn, dst,
		pinger.WithTimeout(timeout),
		pinger.WithInterval(interval),
		pinger.WithPayloadSize(size),
		pinger.WithLogger(log.New(os.Stderr, Z+": ", 0)),
		pinger.WithVerbose(verbose),
		pinger.WithStrictMatch(strict),
	)

	rep := pinger.NewTextReporter(os.Stdout, host, dst.IP.String())
	rep.Header(size)
	c.Run(ctx, rep)
}

func usage(fs *pflag.FlagSet, errstr string) {
	var rc int

	if len(errstr) > 0 {
		Warn("%s", errstr)
		rc = 1
	}

	x := fmt.Sprintf(`%s: send ICMP echo requests to a host until interrupted

Usage: %s [options] host

Options:
`, Z, Z)
	os.Stdout.Write([]byte(x))
	fs.PrintDefaults()
	os.Exit(rc)
}

// Warn prints a message on stderr.
func Warn(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, fmt.Sprintf(f, v...))
}

// Die prints a message on stderr and exits with status 1.
func Die(f string, v ...interface{}) {
	Warn(f, v...)
	os.Exit(1)
}

// will be filled by the build script
var ProductVersion = "UNKNOWN"
var RepoVersion = "UNKNOWN"
