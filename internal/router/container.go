package router

import (
	"time"

	"farmledger/internal/config"
	"farmledger/internal/infra"
	"farmledger/internal/repository"
	"farmledger/internal/service"
	"farmledger/internal/worker"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds every service, built once and shared by the HTTP server,
// the scheduler and the command line tools.
type Container struct {
	Auth        service.AuthService
	Companies   service.CompanyService
	Animals     service.AnimalService
	Groups      service.GroupService
	Components  service.RationComponentService
	Tables      service.RationTableService
	ChangeLogs  service.ChangeLogService
	RationLogs  service.RationLogService
	Weights     service.WeightService
	Slaughters  service.SlaughterService
	Vaccines    service.VaccineService
	FeedCost    service.FeedCostService
	Reports     service.ReportService
	AnimalRepo  repository.AnimalRepository
	Dispatcher  *worker.Dispatcher
	DeadLetters *worker.DeadLetters
	Mailer      *infra.Mailer
}

// Wire builds the dependency graph: Service ← Repository ← DB/Redis.
// rdb may be nil for tools that run without Redis; caching, locking and
// password reset are then unavailable.
func Wire(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Container {
	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	var (
		costCache  service.RationCostCache
		locker     service.Locker
		tokens     service.ResetTokenStore
		dispatcher *worker.Dispatcher
		dead       *worker.DeadLetters
		mail       service.EmailQueue
	)
	if rdb != nil {
		costCache = infra.NewRationCostCache(rdb, time.Duration(cfg.RationCostCacheMinutes)*time.Minute)
		locker = infra.NewRedisLocker(rdb)
		tokens = infra.NewResetTokenStore(rdb, time.Duration(cfg.PasswordResetTTLMinutes)*time.Minute)
		dispatcher = worker.NewDispatcher(rdb)
		dead = worker.NewDeadLetters(rdb)
		mail = dispatcher
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	farmerRepo := repository.NewFarmerRepository(db)
	animalRepo := repository.NewAnimalRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	componentRepo := repository.NewRationComponentRepository(db)
	tableRepo := repository.NewRationTableRepository(db)
	itemRepo := repository.NewRationTableComponentRepository(db)
	changeLogRepo := repository.NewChangeLogRepository(db)
	rationLogRepo := repository.NewRationLogRepository(db)
	weightRepo := repository.NewWeightRepository(db)
	slaughterRepo := repository.NewSlaughterRepository(db)
	vaccineRepo := repository.NewVaccineRepository(db)
	runRepo := repository.NewFeedCostRunRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tables := service.NewRationTableService(tableRepo, itemRepo, componentRepo, changeLogRepo, costCache)
	return &Container{
		Auth:       service.NewAuthService(userRepo, tokens, mail, cfg),
		Companies:  service.NewCompanyService(companyRepo, farmerRepo),
		Animals:    service.NewAnimalService(animalRepo, companyRepo, tableRepo, rationLogRepo),
		Groups:     service.NewGroupService(groupRepo, memberRepo, animalRepo),
		Components: service.NewRationComponentService(componentRepo, changeLogRepo, costCache),
		Tables:     tables,
		ChangeLogs: service.NewChangeLogService(changeLogRepo),
		RationLogs: service.NewRationLogService(rationLogRepo, animalRepo, tableRepo),
		Weights:    service.NewWeightService(weightRepo, animalRepo, groupRepo, memberRepo),
		Slaughters: service.NewSlaughterService(slaughterRepo, animalRepo, companyRepo, rationLogRepo),
		Vaccines:   service.NewVaccineService(vaccineRepo, animalRepo),
		FeedCost: service.NewFeedCostService(
			rationLogRepo, memberRepo, weightRepo, animalRepo, runRepo,
			tables, locker, time.Duration(cfg.FeedCostLockSeconds)*time.Second,
		),
		Reports:     service.NewReportService(animalRepo, weightRepo),
		AnimalRepo:  animalRepo,
		Dispatcher:  dispatcher,
		DeadLetters: dead,
		Mailer:      mailer,
	}
}
