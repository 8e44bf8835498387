package cmd

import "time"

const (
	DEF_SHUTDOWN_TIMEOUT = time.Second * 10
)

const DESCRIPTION = `
cookiectl manages the cookies of an application's two native stores:
the process-wide shared store and the per-webview store. It reads and
writes them as plain name/attribute mappings, imports cookies.txt
exports and serves every operation over JSON-RPC.
`

const (
	SetDescription = `The set command writes one cookie for a url. Attributes
not given on the command line take their defaults: path "/",
no expiry (session cookie), not secure, not http-only.

Example:
        cookiectl set https://example.com/ sid=abc123
        cookiectl --webkit set --secure --expires 2030-01-01T00:00:00Z https://example.com/ sid=abc123

`
	SetFromResponseDescription = `The set-from-response command applies a raw Set-Cookie
header value for a url, exactly as a server would send it.

Example:
        cookiectl set-from-response https://example.com/ "sid=abc; Path=/; HttpOnly"

`
	GetDescription = `The get command prints the cookies that apply to a url
as a name to attribute mapping.

Example:
        cookiectl get https://example.com/account

`
	GetAllDescription = `The get-all command prints every cookie in the store.
The shared store cannot be enumerated and always prints {}.
Use --webkit to list the per-webview store.

Example:
        cookiectl --webkit get-all

`
	ClearDescription = `The clear command removes every cookie from the store.

Example:
        cookiectl clear --force

`
	ClearNameDescription = `The clear-name command removes the cookie with the given
name that applies to a url and prints whether one was found.

Example:
        cookiectl clear-name https://example.com/ sid

`
	FlushDescription = `The flush command writes the shared store to disk.
The per-webview store persists on its own and always prints true.

Example:
        cookiectl flush

`
	RemoveSessionDescription = `The remove-session command removes every cookie that has
no expiry from the shared store.

Example:
        cookiectl remove-session

`
	ImportDescription = `The import command reads a Netscape cookies.txt file and
writes every live cookie it contains into the store.

Example:
        cookiectl import ~/Downloads/cookies.txt
        cookiectl import --domain example.com cookies.txt

`
	ServeDescription = `The serve command runs the JSON-RPC 2.0 daemon. It serves
POST /jsonrpc and the WebSocket endpoint /jsonrpc/ws, both
behind a bearer token, and pushes cookies.changed to every
WebSocket client after each mutation.

Example:
        NATIVECOOKIES_RPC_SECRET=s3cret cookiectl serve --port 6807

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
