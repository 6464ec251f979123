package handlers

import (
	"github.com/jmoiron/sqlx"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/notify"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
)

// NotifyFunc dispatches events after the database work has committed.
// Failures are logged and never surface to the client.
type NotifyFunc func(events []notify.Event)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CustomerHandler *CustomerHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, jwtSecret string, notifier notify.Notifier) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, catRepo)
	custSvc := services.NewCustomerService(custRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, custRepo)
	orderSvc := services.NewOrderService(orderRepo, prodRepo, custRepo)
	authSvc := services.NewAuthService(userRepo, jwtSecret)

	dispatch := func(events []notify.Event) {
		for _, ev := range events {
			if err := notifier.Send(ev); err != nil {
				applog.Notify("notify."+string(ev.Kind), err, map[string]any{
					"order_number": ev.Order.OrderNumber,
				})
			}
		}
	}

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CustomerHandler: &CustomerHandler{Customers: custSvc, Order: orderSvc},
		CartHandler:     &CartHandler{Cart: cartSvc, Orders: orderSvc, Notify: dispatch},
		OrderHandler:    &OrderHandler{Orders: orderSvc, Notify: dispatch},
		Auth:            authSvc,
	}
}
