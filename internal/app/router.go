package app

import (
	"github.com/go-chi/chi/v5"

	accounthandler "github.com/TheRmarkable/Common-Component-Backend/internal/handler/account"
	bankhandler "github.com/TheRmarkable/Common-Component-Backend/internal/handler/bank"
	"github.com/TheRmarkable/Common-Component-Backend/internal/handler/middleware"
	userhandler "github.com/TheRmarkable/Common-Component-Backend/internal/handler/user"
	"github.com/TheRmarkable/Common-Component-Backend/internal/mongodb"
	"github.com/TheRmarkable/Common-Component-Backend/internal/postgres"
	"github.com/TheRmarkable/Common-Component-Backend/internal/service"
)

func (app App) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.WithAuth(app.Config))

	p := postgres.New(app.DB)
	accounts := mongodb.NewAccounts(app.Mongo.Database(app.Config.MongoDatabase))

	ledgerService := service.NewLedgerService(accounts)
	withdrawalService := service.NewWithdrawalService(ledgerService, p)
	userService := service.NewUserService(p, accounts, app.Config)
	bankService := service.NewBankService(p)

	userHandler := userhandler.New(userService)
	bankHandler := bankhandler.New(bankService)
	accountHandler := accounthandler.New(ledgerService, withdrawalService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", userHandler.Register)
		r.Post("/user/login", userHandler.Login)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", userHandler.User)
			r.Post("/verify", userHandler.Verify)

			r.Get("/banks", bankHandler.UserBanks)
			r.Post("/banks", bankHandler.AddUserBank)
			r.Put("/banks/{bankID}", bankHandler.UpdateUserBank)
			r.Delete("/banks/{bankID}", bankHandler.DeleteUserBank)
		})

		r.Route("/corporate/banks", func(r chi.Router) {
			r.Get("/", bankHandler.CorporateBanks)
			r.Post("/", bankHandler.AddCorporateBank)
			r.Put("/{bankID}", bankHandler.UpdateCorporateBank)
			r.Delete("/{bankID}", bankHandler.DeleteCorporateBank)
		})

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/", accountHandler.Account)
			r.Post("/deposit", accountHandler.Deposit)
			r.Post("/withdraw", accountHandler.Withdraw)
			r.Post("/transfer", accountHandler.Transfer)
			r.Post("/withdrawal-request", accountHandler.RequestWithdrawal)
			r.Put("/transactions/{txID}/approve-reject", accountHandler.ApproveRejectWithdrawal)
			r.Delete("/transactions/{txID}", accountHandler.CancelWithdrawal)
		})
	})

	return r
}
