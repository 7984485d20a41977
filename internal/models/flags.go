package models

type Flags struct {
	Mode      string `short:"m" long:"mode" env:"MODE" required:"true" description:"The mode Local Dex is running in: cli/docker" default:"cli"`
	Config    string `short:"c" long:"config" env:"CONFIG" description:"Path to the configuration file" default:"config.json"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" description:"Replace the default logger with one writing logfmt, json or text" choice:"logfmt" choice:"json" choice:"text"`
}
