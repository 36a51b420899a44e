// File: cmd/data.go
package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browserless-go/internal/observability"
)

func newScrapeCmd(a *app) *cobra.Command {
	var (
		page     pageFlags
		elements []string
	)

	cmd := &cobra.Command{
		Use:     "scrape",
		Short:   "Extract elements matching CSS selectors",
		Example: `  browserless scrape --url https://example.com --element h1 --element a`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := applyPage(a.client.Scrape(), &page)
			if err != nil {
				return err
			}
			resp, err := s.Elements(elements...).Send(cmd.Context())
			if err != nil {
				return err
			}
			results, err := resp.RawResults()
			if err != nil {
				return err
			}
			return a.print(cmd, results)
		},
	}

	page.register(cmd.Flags())
	cmd.Flags().StringArrayVarP(&elements, "element", "e", nil, "CSS selector to extract (repeatable)")
	return cmd
}

// scriptFlags are shared by the commands that run caller supplied JavaScript.
type scriptFlags struct {
	code     string
	codeFile string
	context  string
	timeout  time.Duration
}

func (f *scriptFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "inline JavaScript module")
	cmd.Flags().StringVar(&f.codeFile, "code-file", "", "path to a JavaScript module")
	cmd.Flags().StringVar(&f.context, "context", "", "JSON object passed to the function as its context")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "navigation timeout")
}

func (f *scriptFlags) resolve() (string, map[string]any, error) {
	code, err := readSource("code", f.code, f.codeFile)
	if err != nil {
		return "", nil, err
	}
	ctx, err := parseJSONObject("context", f.context)
	if err != nil {
		return "", nil, err
	}
	return code, ctx, nil
}

func newFunctionCmd(a *app) *cobra.Command {
	var (
		script scriptFlags
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "function",
		Short: "Run a JavaScript function in a remote browser",
		Example: `  browserless function --code 'export default async ({ page }) => ({ data: await page.title(), type: "text/plain" })'
  browserless function --code-file scrape.mjs --context '{"url":"https://example.com"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, fnCtx, err := script.resolve()
			if err != nil {
				return err
			}
			f := a.client.ExecuteFunction().Code(code)
			if fnCtx != nil {
				f.Context(fnCtx)
			}
			if script.timeout > 0 {
				f.Timeout(script.timeout)
			}

			resp, err := f.Send(cmd.Context())
			if err != nil {
				return err
			}
			data, err := resp.Data()
			if raw || err != nil {
				// Functions may return any content type; fall back to the raw body.
				return writeOutput(cmd, "", []byte(resp.Text()))
			}
			return a.print(cmd, data)
		},
	}

	script.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print the response body as returned")
	return cmd
}

func newDownloadCmd(a *app) *cobra.Command {
	var (
		script scriptFlags
		out    string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Run JavaScript that triggers a download and save the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, fnCtx, err := script.resolve()
			if err != nil {
				return err
			}
			d := a.client.Download().Code(code)
			if fnCtx != nil {
				d.Context(fnCtx)
			}
			if script.timeout > 0 {
				d.Timeout(script.timeout)
			}

			resp, err := d.Send(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = downloadName(resp.Filename())
			}
			return writeOutput(cmd, out, resp.Content())
		},
	}

	script.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output file (default: the name announced by the service, or download.bin; - for stdout)")
	return cmd
}

// downloadName keeps only the base of a service supplied file name so a
// download never lands outside the working directory.
func downloadName(announced string) string {
	name := filepath.Base(filepath.Clean("/" + announced))
	if name == "/" || name == "." {
		return "download.bin"
	}
	return name
}

func newUnblockCmd(a *app) *cobra.Command {
	var (
		url        string
		content    bool
		cookies    bool
		screenshot bool
		wsEndpoint bool
		ttl        time.Duration
		stealth    bool
		proxy      string
	)

	cmd := &cobra.Command{
		Use:   "unblock",
		Short: "Load a page past bot detection and return the requested artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !content && !cookies && !screenshot && !wsEndpoint {
				return errors.New("request at least one of --content, --cookies, --screenshot or --ws-endpoint")
			}
			u := a.client.Unblock().
				URL(url).
				Content(content).
				Cookies(cookies).
				Screenshot(screenshot).
				BrowserWSEndpoint(wsEndpoint)
			if ttl > 0 {
				u.TTL(ttl)
			}
			if stealth {
				u.Stealth(true)
			}
			if proxy != "" {
				u.Proxy(proxy)
			}

			resp, err := u.Send(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, map[string]any{
				"browserWSEndpoint": resp.BrowserWSEndpoint(),
				"content":           resp.Content(),
				"cookies":           resp.Cookies(),
				"screenshot":        resp.Screenshot(),
				"ttl":               resp.TTL(),
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "page URL to unblock (required)")
	cmd.Flags().BoolVar(&content, "content", false, "return the page HTML")
	cmd.Flags().BoolVar(&cookies, "cookies", false, "return the page cookies")
	cmd.Flags().BoolVar(&screenshot, "screenshot", false, "return a base64 screenshot")
	cmd.Flags().BoolVar(&wsEndpoint, "ws-endpoint", false, "keep the browser open and return its WebSocket endpoint")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "how long the browser stays open after the response")
	cmd.Flags().BoolVar(&stealth, "stealth", false, "enable stealth mode")
	cmd.Flags().StringVar(&proxy, "proxy", "", "proxy kind, e.g. residential")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newBQLCmd(a *app) *cobra.Command {
	var (
		query     string
		queryFile string
		variables string
		operation string
		humanLike bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "bql",
		Short: "Run a Browserless Query Language document",
		Example: `  browserless bql --query '{ goto(url: "https://example.com") { status } }'
  browserless bql --query-file flow.graphql --operation Login --variables '{"user":"demo"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource("query", query, queryFile)
			if err != nil {
				return err
			}
			vars, err := parseJSONObject("variables", variables)
			if err != nil {
				return err
			}

			b := a.client.BQL().Query(text)
			if vars != nil {
				b.Variables(vars)
			}
			if operation != "" {
				b.OperationName(operation)
			}
			if humanLike {
				b.HumanLike(true)
			}
			if timeout > 0 {
				b.Timeout(timeout)
			}

			resp, err := b.Send(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := resp.Data(); err != nil {
				return err
			}
			first := resp.FirstError()
			if first != nil {
				if !resp.HasData() {
					return fmt.Errorf("BQL query failed: %s", first.Message)
				}
				observability.GetLogger().Warn("BQL query returned errors",
					zap.Int("count", len(resp.Errors())),
					zap.String("first", first.Message),
				)
			}
			return a.print(cmd, resp.GetData())
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "inline BQL document")
	cmd.Flags().StringVar(&queryFile, "query-file", "", "path to a BQL document")
	cmd.Flags().StringVar(&variables, "variables", "", "JSON object of query variables")
	cmd.Flags().StringVar(&operation, "operation", "", "operation name to run")
	cmd.Flags().BoolVar(&humanLike, "human-like", false, "use human like input timing")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "bound for the whole query")
	return cmd
}

func newPerformanceCmd(a *app) *cobra.Command {
	var (
		url        string
		categories []string
		audits     []string
		full       bool
	)

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Run a Lighthouse audit of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.client.Performance().URL(url)
			switch {
			case len(audits) > 0:
				p.Audits(audits...)
			case len(categories) > 0:
				p.Categories(categories...)
			}

			resp, err := p.Send(cmd.Context())
			if err != nil {
				return err
			}
			if full {
				data, err := resp.Data()
				if err != nil {
					return err
				}
				return a.print(cmd, data)
			}
			return a.print(cmd, map[string]any{
				"scores":  resp.CategoryScores(),
				"metrics": resp.Metrics(),
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "page URL to audit (required)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Lighthouse categories to run")
	cmd.Flags().StringSliceVar(&audits, "audit", nil, "Lighthouse audit ids to run")
	cmd.Flags().BoolVar(&full, "full", false, "print the full report instead of a summary")
	cmd.MarkFlagsMutuallyExclusive("category", "audit")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
