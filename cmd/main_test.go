package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var configKeys = []string{
	"APP_HOST", "APP_PORT", "APP_LOG_LEVEL",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"POSTGRES_MAX_OPEN_CONNS", "POSTGRES_MAX_IDLE_CONNS",
	"JWT_SECRET_KEY", "JWT_EXP_SECOND",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
}

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv unsets the variables read by parseConfig and restores them after the test.
// They must be unset, not empty: godotenv.Load never overrides a variable that exists.
func resetEnv(t *testing.T) {
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath, seedDB := parseFlags()

	assert.Equal(t, "config.env", configPath)
	assert.False(t, seedDB)
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env", "-seed"}
	configPath, seedDB := parseFlags()

	assert.Equal(t, "myconfig.env", configPath)
	assert.True(t, seedDB)
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	assert.Equal(t, "Starting service version v1.0.0, commit abcd1234, build 2025-09-26\n", buf.String())
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv(t)

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, config{
		appHost:        "localhost",
		appPort:        "8080",
		logLevel:       "info",
		pgHost:         "localhost",
		pgPort:         5432,
		pgUser:         "user",
		pgPassword:     "password",
		pgDB:           "juicebox",
		pgMaxOpenConns: 16,
		pgMaxIdleConns: 8,
		jwtSecretKey:   "my_super_secret_key",
		jwtExpSecond:   3600,
		kafkaTopic:     "juicebox.posts",
	}, cfg)
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv(t)
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "debug")

	t.Setenv("POSTGRES_HOST", "pg.example.com")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "admin")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "mydb")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "20")
	t.Setenv("POSTGRES_MAX_IDLE_CONNS", "10")

	t.Setenv("JWT_SECRET_KEY", "supersecret")
	t.Setenv("JWT_EXP_SECOND", "300")

	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPIC", "posts")

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.appHost)
	assert.Equal(t, "9090", cfg.appPort)
	assert.Equal(t, "debug", cfg.logLevel)
	assert.Equal(t, "pg.example.com", cfg.pgHost)
	assert.Equal(t, 5433, cfg.pgPort)
	assert.Equal(t, "admin", cfg.pgUser)
	assert.Equal(t, "secret", cfg.pgPassword)
	assert.Equal(t, "mydb", cfg.pgDB)
	assert.Equal(t, 20, cfg.pgMaxOpenConns)
	assert.Equal(t, 10, cfg.pgMaxIdleConns)
	assert.Equal(t, "supersecret", cfg.jwtSecretKey)
	assert.Equal(t, 300, cfg.jwtExpSecond)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.kafkaBrokers)
	assert.Equal(t, "posts", cfg.kafkaTopic)
}

func TestParseConfig_EnvFile(t *testing.T) {
	resetEnv(t)
	path := t.TempDir() + "/test.env"
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=7070\nPOSTGRES_DB=fromfile\n"), 0o600))

	cfg, err := parseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.appPort)
	assert.Equal(t, "fromfile", cfg.pgDB)
}

func TestParseConfig_InvalidPort(t *testing.T) {
	resetEnv(t)
	t.Setenv("POSTGRES_PORT", "not-a-number")

	_, err := parseConfig("nonexistent.env")
	assert.Error(t, err)
}

func TestRun_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "user"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config{
		appHost:        "127.0.0.1",
		appPort:        "8086",
		logLevel:       "debug",
		pgHost:         pgHost,
		pgPort:         pgPort.Int(),
		pgUser:         "user",
		pgPassword:     "password",
		pgDB:           "testdb",
		pgMaxOpenConns: 5,
		pgMaxIdleConns: 2,
		jwtSecretKey:   "testsecret",
		jwtExpSecond:   60,
	}

	testCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(testCtx, cfg, true)
	}()

	// The seeded tags become visible once the server is up
	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:8086/api/tags")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 200*time.Millisecond)

	resp, err := http.Post("http://127.0.0.1:8086/api/posts", "application/json", bytes.NewReader([]byte(`{"title":"t","content":"c"}`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get("http://127.0.0.1:8086/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case <-time.After(20 * time.Second):
		t.Fatal("test timed out")
	case err := <-errCh:
		assert.NoError(t, err)
	}
}
