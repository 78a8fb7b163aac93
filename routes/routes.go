package routes

import (
	"cashier/config"
	"cashier/controllers/callback"
	"cashier/controllers/deposit"
	"cashier/controllers/method"
	"cashier/controllers/user"
	"cashier/controllers/withdraw"
	"cashier/metrics"
	"cashier/middlewares"
	"cashier/services"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, svc *services.Service, cfg *config.Config) {
	users := user.NewHandler(svc)
	deposits := deposit.NewHandler(svc)
	withdrawals := withdraw.NewHandler(svc)
	methods := method.NewHandler(svc)
	callbacks := callback.NewHandler(svc)

	app.Get("/metrics", metrics.Handler())

	userroutes := app.Group("/user")
	userroutes.Post("/register", users.Register)
	userroutes.Get("/account", users.Account)
	userroutes.Get("/my-turnovers", users.MyTurnovers)

	app.Get("/deposit-methods", methods.ListDeposit(true))
	app.Get("/withdraw-methods", methods.ListWithdraw(true))
	app.Post("/deposit-requests", deposits.Create)
	app.Post("/withdraw-requests", withdrawals.Create)

	//provider
	app.Post("/callback", middlewares.CallbackAuth(cfg.CallbackVerificationKey), callbacks.GameCallback)

	//admin
	admin := app.Group("/admin", middlewares.AdminAuth(cfg.AdminAPIKey))
	admin.Get("/deposit-requests", deposits.List)
	admin.Post("/deposit-requests/:id/approve", deposits.Approve)
	admin.Post("/deposit-requests/:id/reject", deposits.Reject)

	admin.Get("/withdraw-requests", withdrawals.List)
	admin.Post("/withdraw-requests/:id/approve", withdrawals.Approve)
	admin.Post("/withdraw-requests/:id/reject", withdrawals.Reject)

	admin.Get("/deposit-methods", methods.ListDeposit(false))
	admin.Get("/deposit-methods/:id", methods.GetDeposit)
	admin.Post("/deposit-methods", methods.CreateDeposit)
	admin.Put("/deposit-methods/:id", methods.UpdateDeposit)

	admin.Get("/withdraw-methods", methods.ListWithdraw(false))
	admin.Get("/withdraw-methods/:id", methods.GetWithdraw)
	admin.Post("/withdraw-methods", methods.CreateWithdraw)
	admin.Put("/withdraw-methods/:id", methods.UpdateWithdraw)
}
