// Package cmd implements the cookiectl command line.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/nativecookies/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var (
	buildCommit string
	buildType   string
)

func Execute(args []string, bArgs BuildArgs) error {
	buildCommit, buildType = bArgs.Commit, bArgs.BuildType
	storeFlag := globalFlags[0].(cli.StringFlag)
	storeFlag.Value = defaultStorePath()
	flags := append([]cli.Flag{storeFlag}, globalFlags[1:]...)

	app := cli.App{
		Name:                  "cookiectl",
		HelpName:              "cookiectl",
		Usage:                 "Manage native cookie stores.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "cookiectl [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 flags,
		Commands: []cli.Command{
			{
				Name:               "set",
				Usage:              "write a cookie for a url",
				UsageText:          "set [flags] URL NAME=VALUE",
				Description:        SetDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             set,
				Flags:              setFlags,
			},
			{
				Name:               "set-from-response",
				Usage:              "apply a raw Set-Cookie header for a url",
				UsageText:          "set-from-response URL HEADER",
				Description:        SetFromResponseDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             setFromResponse,
			},
			{
				Name:               "get",
				Aliases:            []string{"g"},
				Usage:              "print the cookies for a url",
				UsageText:          "get URL",
				Description:        GetDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             get,
			},
			{
				Name:               "get-all",
				Aliases:            []string{"ls"},
				Usage:              "print every cookie in the store",
				UsageText:          " ",
				Description:        GetAllDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             getAll,
			},
			{
				Name:                   "clear",
				Usage:                  "remove every cookie from the store",
				Description:            ClearDescription,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Action:                 clearAll,
				UseShortOptionHandling: true,
				Flags:                  clearFlags,
			},
			{
				Name:               "clear-name",
				Usage:              "remove one cookie by name",
				UsageText:          "clear-name URL NAME",
				Description:        ClearNameDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             clearName,
			},
			{
				Name:               "flush",
				Usage:              "write the store to disk",
				UsageText:          " ",
				Description:        FlushDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             flush,
			},
			{
				Name:               "remove-session",
				Usage:              "remove every session cookie",
				UsageText:          " ",
				Description:        RemoveSessionDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             removeSession,
			},
			{
				Name:               "import",
				Usage:              "import a Netscape cookies.txt file",
				UsageText:          "import [flags] FILE",
				Description:        ImportDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             importCookies,
				Flags:              importFlags,
			},
			{
				Name:               "serve",
				Usage:              "run the JSON-RPC daemon",
				Description:        ServeDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             serve,
				Flags:              serveFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of cookiectl",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
