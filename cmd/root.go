/*
 * poster-wall is a proxy that reshapes a Plex media server into a kiosk poster wall.
 * Copyright (C) 2025  Dan Santee
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dansantee/poster-wall/pkg/config"
	"github.com/dansantee/poster-wall/pkg/server"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "poster-wall",
	Short: "Kiosk poster wall proxy for a Plex media server",
	Long: `poster-wall sits between a display client and a Plex media server,
reshaping the library into a compact paged poster feed and a live
"what's playing" signal for a kiosk-style poster wall.

It supports:
- Merged movie + show catalog, globally ordered and paged
- Now-playing detection for monitored displays
- Transcoded poster art proxying
- Server-managed kiosk configuration with an admin key gate`,

	Run: func(cmd *cobra.Command, args []string) {
		log.Printf("[poster-wall] Server is starting...")

		timeout := viper.GetFloat64("timeout")
		if timeout <= 0 {
			timeout = 10
		}

		conf := &config.ProxyConfig{
			HostConfig: &config.HostConfiguration{
				Hostname: viper.GetString("hostname"),
				Port:     viper.GetInt("port"),
			},
			PlexURL:         strings.TrimRight(strings.TrimSpace(viper.GetString("plex-url")), "/"),
			PlexToken:       config.CredentialString(strings.TrimSpace(viper.GetString("plex-token"))),
			AllowInsecure:   viper.GetBool("allow-insecure"),
			SectionID:       viper.GetString("section-id"),
			UpstreamTimeout: time.Duration(timeout * float64(time.Second)),
			AdminKey:        config.CredentialString(strings.TrimSpace(viper.GetString("admin-key"))),
			ConfigPath:      viper.GetString("config-path"),
			RestartCommand:  viper.GetString("restart-command"),
		}

		server, err := server.NewServer(conf)
		if err != nil {
			log.Fatal(err)
		}

		if err := server.Serve(); err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.poster-wall.yaml)")

	// Service flags
	rootCmd.Flags().Int("port", 8811, "Listening port")
	rootCmd.Flags().String("hostname", "", "Hostname to use in generated URLs")

	// Upstream flags
	rootCmd.Flags().StringP("plex-url", "u", "", "Server-wide Plex base URL")
	rootCmd.Flags().String("plex-token", "", "Server-wide Plex auth token")
	rootCmd.Flags().Bool("allow-insecure", false, "Skip upstream TLS verification by default")
	rootCmd.Flags().String("section-id", "1", "Default library section id")
	rootCmd.Flags().Float64("timeout", 10, "Upstream request timeout in seconds")

	// Kiosk config store flags
	rootCmd.Flags().String("config-path", "config.json", "Path of the JSON config store file")
	rootCmd.Flags().String("admin-key", "", "Key required to mutate the stored config")
	rootCmd.Flags().String("restart-command", "", "Command the admin restart endpoint runs")

	// Bind all flags to viper
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		log.Fatal("Error binding PFlags to viper")
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory and current directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".poster-wall")
	}

	// Replace hyphens with underscores in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read environment variables
	viper.AutomaticEnv()

	// Read in config file if found
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
