// Package logging configures the slog logger bodytmpl runs with.
//
// The CLI turns --log-level and --log-format into a Config and installs it
// once, before any server is built:
//
//	cfg, err := logging.FromFlags("debug", "json", os.Stderr)
//	if err != nil {
//		return err
//	}
//	logging.Init(cfg)
//
// The server passes slog.Default() to each mock's template resource, tagged
// with the mock name. Resources and servers built without a logger use Nop.
package logging
