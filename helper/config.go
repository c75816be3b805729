package helper

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/bassbeaver/gioc"
	"github.com/spf13/viper"
)

const configServicesPrefix = "services"

// BuildConfigFromDir reads every config file of a supported format found under configPath
// (or under its directory, if configPath is a file) and merges them into one viper object.
func BuildConfigFromDir(configPath string) (*viper.Viper, error) {
	configObj := viper.New()

	var configDir string
	configPathStat, configPathStatError := os.Stat(configPath)
	if nil != configPathStatError {
		return nil, errors.New("failed to read configs: " + configPathStatError.Error())
	}
	if configPathStat.IsDir() {
		configDir = configPath
	} else {
		configDir = filepath.Dir(configPath)
	}

	firstConfigFile := true
	pathWalkError := filepath.Walk(
		configDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return errors.New("failed to read config file " + path + ", error: " + err.Error())
			}

			if info.IsDir() {
				return nil
			}

			configFileExt := filepath.Ext(info.Name())
			// if extension is not allowed - take next file
			if "" == configFileExt || !StringInSlice(configFileExt[1:], viper.SupportedExts) {
				return nil
			}

			configObj.SetConfigFile(path)

			if firstConfigFile {
				if configError := configObj.ReadInConfig(); nil != configError {
					return configError
				}

				firstConfigFile = false
			} else {
				if configError := configObj.MergeInConfig(); nil != configError {
					return configError
				}
			}

			return nil
		},
	)
	if nil != pathWalkError {
		return nil, errors.New("failed to read configs: " + pathWalkError.Error())
	}

	return configObj, nil
}

// RegisterService registers factoryMethod in container under alias. The service has to be
// declared in config under services.<alias>, its arguments are read from
// services.<alias>.arguments.
func RegisterService(config *viper.Viper, container *gioc.Container, alias string, factoryMethod interface{}, enableCaching bool) error {
	configServicePath := configServicesPrefix + "." + alias
	configServiceArgumentsPath := configServicesPrefix + "." + alias + ".arguments"
	if !config.IsSet(configServicePath) {
		return errors.New(alias + " service configuration not found")
	}

	var arguments []string
	if config.IsSet(configServiceArgumentsPath) {
		arguments = config.GetStringSlice(configServiceArgumentsPath)
	} else {
		arguments = make([]string, 0)
	}

	container.RegisterServiceFactoryByAlias(
		alias,
		gioc.Factory{
			Create:    factoryMethod,
			Arguments: arguments,
		},
		enableCaching,
	)

	return nil
}
