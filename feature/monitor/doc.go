// Package monitor reports the result of a run to an external push monitor.
//
// The monitor URL is a template with three placeholders, for example an
// Uptime Kuma push URL:
//
//	https://status.example.org/api/push/abc?status={status}&msg={msg}&ping={ping}
//
// {status} is "up" or "down", {msg} a short summary (on failure, naming the
// event being processed), and {ping} the elapsed run time in milliseconds.
// Finish fires exactly once; without a configured URL it does nothing.
package monitor
