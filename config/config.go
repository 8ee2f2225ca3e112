package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Exam     Exam
}

type Server struct {
	Port string
}
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Exam holds the tunables of an exam attempt. QuestionCount is the number of
// questions generated per session; Duration is the client-side time limit.
type Exam struct {
	QuestionCount int
	Duration      time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("EXAM_QUESTION_COUNT", 100)
	viper.SetDefault("EXAM_DURATION_MINUTES", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Exam.QuestionCount = viper.GetInt("EXAM_QUESTION_COUNT")
	config.Exam.Duration = time.Duration(viper.GetInt("EXAM_DURATION_MINUTES")) * time.Minute

	log.Info().Str("port", config.Server.Port).Int("questions", config.Exam.QuestionCount).Msg("Config loaded")
	return &config, nil
}
