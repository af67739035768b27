// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photogram/modules/appconfig"
	"photogram/modules/auth"
	"photogram/modules/clock"
	"photogram/modules/db/postgres"
	"photogram/modules/db/redis"
	"photogram/modules/db/redis/counter"
	"photogram/modules/db/redis/locking"
	hmac_sign "photogram/modules/hmac"
	"photogram/modules/mapper"
	"photogram/modules/middleware"
	"photogram/modules/middleware/ratelimit"
	"photogram/modules/oapi"
	rl "photogram/modules/ratelimit"
	"photogram/modules/server"
	"photogram/modules/services"
	"photogram/modules/telemetry"

	"photogram/core/email/adapters/cleanup"
	emailpg "photogram/core/email/adapters/persistence/pg"
	"photogram/core/email/adapters/queue"
	"photogram/core/email/adapters/smtp"
	emaildomain "photogram/core/email/domain"
	imagepg "photogram/core/image/adapters/persistence/pg"
	image_http "photogram/core/image/adapters/rest"
	imagedomain "photogram/core/image/domain"
	postpg "photogram/core/post/adapters/persistence/pg"
	post_http "photogram/core/post/adapters/rest"
	postdomain "photogram/core/post/domain"
	rolecache "photogram/core/role/adapters/cache"
	rolepg "photogram/core/role/adapters/persistence/pg"
	role_http "photogram/core/role/adapters/rest"
	roledomain "photogram/core/role/domain"
	userpg "photogram/core/user/adapters/persistence/pg"
	user_http "photogram/core/user/adapters/rest"
	userdomain "photogram/core/user/domain"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/redis/rueidis"
	"github.com/redis/rueidis/rueidislock"
)

// SQL migrations applied by dbmate at startup
//
//go:embed db/migrations/*.sql
var migrationsFS embed.FS

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	// cancel the context when these signals occur
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// --- application config ----
	appConfig, err := appconfig.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// manual dependency injections, no DI framework
	slog.SetLogLoggerLevel(appConfig.LogLevel)
	clk := clock.RealClockProvider()
	serviceName := appConfig.Otel.ServiceName

	// every deferred shutdown gets a fresh budget since ctx is already done by then
	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.WithoutCancel(ctx), appConfig.Server.ShutdownTimeout)
	}

	otelShutdown, err := telemetry.Init(ctx, appConfig.Otel)
	if err != nil {
		slog.ErrorContext(ctx, "telemetry not properly configured", slog.Any("error", err))
		exitCode = 1
		return
	}
	defer func() {
		sctx, stop := shutdownCtx()
		defer stop()
		if err := otelShutdown(sctx); err != nil {
			slog.ErrorContext(ctx, "telemetry shutdown error", slog.Any("error", err))
		}
	}()

	// --- infrastructure ---

	connectionPool, err := postgres.New(
		ctx,
		&appConfig.Postgres,
		migrationsFS,
		postgres.PostgresOptions{
			WriterOptions: []postgres.PgxConfigOption{
				postgres.WithApplicationName(serviceName),
				postgres.WithConnLifetime(time.Hour, 0),
			},
			// replicas sit behind PgBouncer, the primary does not
			ReaderOptions: []postgres.PgxConfigOption{
				postgres.WithPgBouncerSimpleProtocol(),
				postgres.WithApplicationName(serviceName),
			},
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "database error", slog.Any("error", err))
		exitCode = 1
		return
	}
	defer func() {
		sctx, stop := shutdownCtx()
		defer stop()
		if err := connectionPool.Shutdown(sctx); err != nil {
			slog.ErrorContext(ctx, "database shutdown error", slog.Any("error", err))
		}
	}()

	if err = connectionPool.HealthCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "database health check failed", slog.Any("error", err))
		exitCode = 1
		return
	}

	if appConfig.Postgres.Migrations.ApplyOnStart {
		if err := connectionPool.MigrateUp(); err != nil {
			slog.ErrorContext(ctx, "database migration failed", slog.Any("error", err))
			exitCode = 1
			return
		}
	}

	redisClient, err := redis.NewRueidisClient(ctx, appConfig.Redis)
	if err != nil {
		slog.ErrorContext(ctx, "redis not properly setup", slog.Any("error", err))
		exitCode = 1
		return
	}
	defer redisClient.Close()

	kvOpts := []redis.RedisKVOption{
		redis.WithKeyPrefix(serviceName + ":roles"),
		redis.WithDefaultTTL(10 * time.Minute),
	}
	if !appConfig.Redis.DisableCache {
		kvOpts = append(kvOpts, redis.WithClientSideCache())
	}
	roleKV := redis.NewRedisKV(redisClient, kvOpts...)

	redisOption, err := redis.ClientOption(appConfig.Redis)
	if err != nil {
		slog.ErrorContext(ctx, "redis lock options", slog.Any("error", err))
		exitCode = 1
		return
	}
	// rueidislock manages its own tracking for lock keys
	redisOption.ClientTrackingOptions = nil
	locker, err := rueidislock.NewLocker(rueidislock.LockerOption{
		ClientOption: redisOption,
		KeyPrefix:    serviceName + ":lock",
		KeyMajority:  1,
	})
	if err != nil {
		slog.ErrorContext(ctx, "redis locker not properly setup", slog.Any("error", err))
		exitCode = 1
		return
	}
	defer locker.Close()

	lockExecutor := locking.NewLockingTaskExecutor(locker, locking.WithClock(clk))

	cursorSigner, err := hmac_sign.NewHMACSigner([]byte(appConfig.HMAC.Secret), hmac_sign.WithPurpose("post-cursor"))
	if err != nil {
		slog.ErrorContext(ctx, "hmac signer setup error", slog.Any("error", err))
		exitCode = 1
		return
	}

	tokens, err := auth.NewTokenService(appConfig.JWT, clk)
	if err != nil {
		slog.ErrorContext(ctx, "token service setup error", slog.Any("error", err))
		exitCode = 1
		return
	}

	// --- mail ---

	mailSender, err := smtp.NewSender(appConfig.Mail.SMTP)
	if err != nil {
		slog.ErrorContext(ctx, "smtp sender setup error", slog.Any("error", err))
		exitCode = 1
		return
	}

	mailMetrics, err := telemetry.NewMailMetrics(serviceName)
	if err != nil {
		slog.WarnContext(ctx, "failed to initialize mail metrics, continuing without metrics", slog.Any("error", err))
		mailMetrics = nil
	}

	mailQueue := queue.NewDispatcher(
		mailSender,
		queue.WithWorkers(appConfig.Mail.Workers),
		queue.WithBuffer(appConfig.Mail.Buffer),
		queue.WithMetrics(mailMetrics),
	)

	confirmationWriter, err := emailpg.NewPostgresConfirmationWriter(ctx, connectionPool, "email_confirmations")
	if err != nil {
		slog.ErrorContext(ctx, "confirmation writer initialization error", slog.Any("error", err))
		exitCode = 1
		return
	}

	emailApp := emaildomain.NewApp(
		emailpg.NewPostgresConfirmationReader(connectionPool, "email_confirmations"),
		confirmationWriter,
		mailQueue,
		emaildomain.Settings{
			ConfirmationTTL:    appConfig.Mail.ConfirmationTTL,
			ConfirmationURL:    appConfig.Mail.ConfirmationURL,
			ConfirmationTitle:  appConfig.Mail.ConfirmationTitle,
			PasswordResetTitle: appConfig.Mail.PasswordResetTitle,
		},
		emaildomain.WithClock(clk),
	)
	defer func() {
		sctx, stop := shutdownCtx()
		defer stop()
		if err := emailApp.Close(sctx); err != nil {
			slog.ErrorContext(ctx, "mail queue shutdown error", slog.Any("error", err))
		}
	}()

	if appConfig.Cleanup.Enabled {
		job, err := cleanup.NewJob(emailApp, lockExecutor, appConfig.Cleanup)
		if err != nil {
			slog.ErrorContext(ctx, "cleanup job setup error", slog.Any("error", err))
			exitCode = 1
			return
		}
		job.Start(ctx)
		defer func() {
			sctx, stop := shutdownCtx()
			defer stop()
			if err := job.Stop(sctx); err != nil {
				slog.ErrorContext(ctx, "cleanup job shutdown error", slog.Any("error", err))
			}
		}()
	}

	// --- application layer ---

	imageStore, err := imagepg.NewPostgresImageStore(ctx, connectionPool, "images")
	if err != nil {
		slog.ErrorContext(ctx, "image store initialization error", slog.Any("error", err))
		exitCode = 1
		return
	}
	imageApp := imagedomain.NewApp(imageStore, imageStore, appConfig.Image)

	roleApp := roledomain.NewApp(
		rolecache.NewCachedRoleReader(rolepg.NewPostgresRoleReader(connectionPool, "roles"), roleKV),
	)

	userTables := userpg.DefaultTables()
	userWriter, err := userpg.NewPostgresUserWriter(ctx, connectionPool, connectionPool, userTables)
	if err != nil {
		slog.ErrorContext(ctx, "user writer initialization error", slog.Any("error", err))
		exitCode = 1
		return
	}
	userApp := userdomain.NewApp(userdomain.Dependencies{
		Reader: userpg.NewPostgresUserReader(connectionPool, userTables),
		Writer: userWriter,
		Roles:  roleApp,
		Email:  emailApp,
		Images: imageApp,
		Hasher: userdomain.NewBcryptHasher(appConfig.User.BcryptCost),
	})

	postTables := postpg.DefaultTables()
	postWriter, err := postpg.NewPostgresPostWriter(ctx, connectionPool, postTables)
	if err != nil {
		slog.ErrorContext(ctx, "post writer initialization error", slog.Any("error", err))
		exitCode = 1
		return
	}
	postApp := postdomain.NewApp(
		postpg.NewPostgresPostReader(connectionPool, postTables),
		postWriter,
		imageApp,
		cursorSigner,
		postdomain.WithClock(clk),
		postdomain.WithCursorTTL(appConfig.Post.CursorTTL),
	)

	roleMapper := role_http.NewRoleMapper()
	commentMapper := post_http.NewCommentMapper()
	mappers, err := mapper.NewService(
		roleMapper,
		user_http.NewUserMapper(roleMapper),
		commentMapper,
		post_http.NewPostMapper(commentMapper, userApp),
	)
	if err != nil {
		slog.ErrorContext(ctx, "mapper registration error", slog.Any("error", err))
		exitCode = 1
		return
	}

	// --- http ---

	mux := http.NewServeMux()
	route := middleware.MuxRoutes(mux)

	httpMetrics, err := telemetry.NewHTTPMetrics(serviceName)
	if err != nil {
		slog.WarnContext(ctx, "failed to initialize HTTP metrics, continuing without metrics", slog.Any("error", err))
		httpMetrics = nil
	}

	globalMiddlewares := []func(http.Handler) http.Handler{
		middleware.Telemetry(httpMetrics, route),
	}
	if !appConfig.Otel.Disabled {
		globalMiddlewares = append(globalMiddlewares, middleware.Tracing(serviceName, route))
	}
	if appConfig.RateLimit.Enabled {
		rateLimit, err := newRateLimitMiddleware(ctx, appConfig, clk, redisClient, route)
		if err != nil {
			slog.ErrorContext(ctx, "ratelimit config not properly parsed", slog.Any("error", err))
			exitCode = 1
			return
		}
		globalMiddlewares = append(globalMiddlewares, rateLimit)
	}
	globalMiddlewares = append(globalMiddlewares, middleware.Recovery(nil))

	var validationDoc *openapi3.T
	if appConfig.Server.ValidateRequests {
		middleware.RegisterBinaryContentTypes(imagedomain.AllowedContentTypes...)
		validationDoc, err = middleware.LoadSpec(ctx, oapi.FS, oapi.SpecPath)
		if err != nil {
			slog.ErrorContext(ctx, "openapi document error", slog.Any("error", err))
			exitCode = 1
			return
		}
	}

	health := services.NewHealth(2*time.Second).
		With("postgres", connectionPool).
		With("redis", roleKV)

	photogramSvc := services.NewPhotogramService(
		validationDoc,
		tokens,
		health,
		user_http.NewUserAPI(userApp, tokens, mappers, appConfig.User.MaxAvatarSize),
		image_http.NewImageAPI(imageApp, appConfig.Image.MaxSize),
		post_http.NewPostAPI(postApp, mappers),
	)

	srv, err := server.New(
		appConfig.Server.Host, appConfig.Server.Port,
		server.WithReadTimeout(appConfig.Server.ReadTimeout),
		server.WithWriteTimeout(appConfig.Server.WriteTimeout),
		server.WithShutdownTimeout(appConfig.Server.ShutdownTimeout),
		server.WithMux(mux),
		server.WithGlobalMiddlewares(globalMiddlewares...),
		server.WithServices(photogramSvc),
	)
	if err != nil {
		slog.ErrorContext(ctx, "init server error", slog.Any("error", err))
		exitCode = 1
		return
	}

	if err := srv.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "running server error", slog.Any("error", err))
		exitCode = 1
		return
	}
}

// newRateLimitMiddleware compiles the configured policies over sliding
// windows kept in redis, or in process memory when RATE_LIMIT_STORE=memory.
func newRateLimitMiddleware(
	ctx context.Context,
	appConfig *appconfig.Config,
	clk clock.Clock,
	client rueidis.Client,
	route middleware.RouteFunc,
) (func(http.Handler) http.Handler, error) {
	var store rl.CounterStore
	switch appConfig.RateLimit.Store {
	case ratelimit.MemoryStore:
		store = rl.NewMemoryCounter(clk)
	default:
		store = counter.NewRedisCounterStore(client, "")
	}

	slog.DebugContext(ctx, "app rate limit config", slog.Any("rate_limit_config", appConfig.RateLimit))

	rtp, err := ratelimit.ParsePolicy(
		rl.SlidingWindowFactory(clk, store, appConfig.RateLimit.KeyPrefix),
		&appConfig.RateLimit,
		ratelimit.MuxRouteInfo(route),
		ratelimit.DefaultKeyStrategies(),
	)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewRateLimitMiddleware(rtp), nil
}
