package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DATABASE_ENGINE", "MongoDB")
	t.Setenv("TEST_MONGO_NAME", "attendanceTest")
	t.Setenv("TEST_REDIS_REPORTTTL", "90s")
	t.Setenv("TEST_SERVER_HOST", ":9000")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, EngineMongo, conf.Database.Engine)
	assert.Equal(t, "attendanceTest", conf.Mongo.Name)
	assert.Equal(t, 90*time.Second, conf.Redis.ReportTTL)
	assert.Equal(t, ":9000", conf.Server.Host)
	assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
	assert.NoError(t, conf.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Host: ":8000"},
			Database: DatabaseConfig{Engine: EngineMemory, Host: "localhost", Name: "db", User: "app"},
			Mongo:    MongoConfig{URI: "mongodb://localhost:27017", Name: "db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "memory", mutate: func(c *Config) {}},
		{name: "postgres", mutate: func(c *Config) { c.Database.Engine = EnginePostgres }},
		{name: "postgres without user", mutate: func(c *Config) { c.Database.Engine = EnginePostgres; c.Database.User = "" }, wantErr: true},
		{name: "mongo", mutate: func(c *Config) { c.Database.Engine = EngineMongo }},
		{name: "mongo without uri", mutate: func(c *Config) { c.Database.Engine = EngineMongo; c.Mongo.URI = "" }, wantErr: true},
		{name: "unknown engine", mutate: func(c *Config) { c.Database.Engine = "sqlite" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.Server.Host = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := valid()
			tt.mutate(conf)
			if err := conf.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDBOrdering_String(t *testing.T) {
	assert.Equal(t, "student_id ASC", DBOrdering{Field: "student_id", Ascending: true}.String())
	assert.Equal(t, "created_at DESC", DBOrdering{Field: "created_at"}.String())
}

func TestStorageError(t *testing.T) {
	assert.Nil(t, NewStorageError("noop", nil))

	err := NewStorageError("finding", assert.AnError)
	assert.True(t, IsStorageError(err))
	assert.EqualError(t, err, "finding: "+assert.AnError.Error())
	assert.False(t, IsStorageError(assert.AnError))
	assert.False(t, IsShutdown(err))
	assert.True(t, IsShutdown(NewShutdownError("bye")))
}
