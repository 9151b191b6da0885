package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/url"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/freekieb7/hearth/http"
	"github.com/freekieb7/hearth/probe"
)

var (
	probeMethod   string
	probeData     string
	probeQUIC     bool
	probeInsecure bool
	probeTimeout  time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe URL",
	Short: "Send one request to a running server and print the response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		defer cancel()

		var (
			res *probe.Result
			err error
		)
		if probeQUIC {
			res, err = probeOverQUIC(ctx, args[0])
		} else {
			res, err = probe.New(probeTimeout).Do(ctx, probeMethod, args[0], []byte(probeData))
		}
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

func init() {
	probeCmd.Flags().StringVarP(&probeMethod, "request", "X", "GET", "request method")
	probeCmd.Flags().StringVarP(&probeData, "data", "d", "", "request body")
	probeCmd.Flags().BoolVar(&probeQUIC, "quic", false, "probe over QUIC instead of TCP")
	probeCmd.Flags().BoolVarP(&probeInsecure, "insecure", "k", false, "skip TLS certificate verification (QUIC)")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", probe.DefaultTimeout, "request timeout")
	rootCmd.AddCommand(probeCmd)
}

func probeOverQUIC(ctx context.Context, rawURL string) (*probe.Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	method, ok := http.LookupMethod(probeMethod)
	if !ok {
		return nil, fmt.Errorf("unknown method %q", probeMethod)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	req := http.NewRequest().
		WithMethod(method).
		WithPath(path).
		WithHeader(http.HeaderHost, u.Host)
	if probeData != "" {
		req.WithBody([]byte(probeData))
	}

	host := u.Hostname()
	return probe.QUIC(ctx, u.Host, req, &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: probeInsecure,
	})
}

func printResult(w io.Writer, res *probe.Result) error {
	if _, err := fmt.Fprintf(w, "%s %d (%s)\n", res.Proto, res.Status, res.Duration.Round(time.Microsecond)); err != nil {
		return err
	}
	keys := make([]string, 0, len(res.Headers))
	for key := range res.Headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "%s: %s\n", key, res.Headers[key])
	}
	_, err := fmt.Fprintf(w, "\n%s", res.Body)
	return err
}
