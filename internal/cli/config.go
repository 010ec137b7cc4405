package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "DICOM_DEID"
	configEnvVar      = envPrefix + "_CONFIG"
	defaultConfigName = ".dicom-deid"
)

// ConfigFlagOverride is a flag that took its value from the config file or
// the environment.
type ConfigFlagOverride struct {
	FlagName  string
	ConfigKey string
	Value     string
}

// initConfig loads the config file and environment and fills every flag of
// cmd the user did not set on the command line. Precedence is CLI > env >
// config file > flag default.
func initConfig(cmd *cobra.Command, opts *RootOptions) ([]ConfigFlagOverride, error) {
	v := viper.New()

	// Config file: --config flag > env variable > default file in home directory.
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return bindFlagsToViper(cmd, v)
}

// bindFlagsToViper copies config values into unchanged flags. A key under the
// command's own section ("run.output") wins over a top-level key ("output").
func bindFlagsToViper(cmd *cobra.Command, v *viper.Viper) ([]ConfigFlagOverride, error) {
	var bindErr error
	var overrides []ConfigFlagOverride

	subCmdPath := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name())
	configKeyPrefix := strings.ReplaceAll(strings.TrimSpace(subCmdPath), " ", "-")

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Changed {
			return
		}

		key := ""
		switch {
		case configKeyPrefix != "" && v.IsSet(configKeyPrefix+"."+f.Name):
			key = configKeyPrefix + "." + f.Name
		case v.IsSet(f.Name):
			key = f.Name
		default:
			return
		}

		var val string
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			values := v.GetStringSlice(key)
			if err := sv.Replace(values); err != nil {
				bindErr = fmt.Errorf("flag --%s from %s: %w", f.Name, key, err)
				return
			}
			val = strings.Join(values, ",")
		} else {
			val = v.GetString(key)
			if err := cmd.Flags().Set(f.Name, val); err != nil {
				bindErr = fmt.Errorf("flag --%s from %s: %w", f.Name, key, err)
				return
			}
		}
		overrides = append(overrides, ConfigFlagOverride{
			FlagName:  f.Name,
			ConfigKey: key,
			Value:     val,
		})
	})

	return overrides, bindErr
}
