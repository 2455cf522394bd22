package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"marketplace-be/internal/account"
	"marketplace-be/internal/catalog"
	"marketplace-be/internal/config"
	"marketplace-be/internal/db"
)

type seedVariant struct {
	Key             string
	Stock           int
	PriceAdjustment int64
	Attributes      []catalog.AttributeLabel
}

type seedProduct struct {
	Name      string
	BasePrice int64
	Variants  []seedVariant
}

type seedShop struct {
	Name     string
	Status   string
	Products []seedProduct
}

type seedAccount struct {
	Email    string
	Password string
	Roles    []string
	Shop     *seedShop
}

var fixtures = []seedAccount{
	{
		Email:    "admin@example.com",
		Password: "admin-password",
		Roles:    []string{"admin"},
	},
	{
		Email:    "buyer@example.com",
		Password: "buyer-password",
		Roles:    []string{"buyer"},
	},
	{
		Email:    "seller@example.com",
		Password: "seller-password",
		Roles:    []string{"buyer", "seller"},
		Shop: &seedShop{
			Name:   "Harbor Goods",
			Status: "active",
			Products: []seedProduct{
				{
					Name:      "Ceramic Mug",
					BasePrice: 1200,
					Variants: []seedVariant{
						{Key: "blue", Stock: 25, PriceAdjustment: 0,
							Attributes: []catalog.AttributeLabel{{Name: "color", Value: "blue"}}},
						{Key: "red-large", Stock: 10, PriceAdjustment: 300,
							Attributes: []catalog.AttributeLabel{
								{Name: "color", Value: "red"}, {Name: "size", Value: "large"}}},
					},
				},
				{
					Name:      "Linen Tote",
					BasePrice: 3500,
					Variants: []seedVariant{
						{Key: "natural", Stock: 8,
							Attributes: []catalog.AttributeLabel{{Name: "color", Value: "natural"}}},
					},
				},
			},
		},
	},
	{
		Email:    "closedseller@example.com",
		Password: "seller-password",
		Roles:    []string{"buyer", "seller"},
		Shop: &seedShop{
			Name:   "Night Market",
			Status: "inactive",
			Products: []seedProduct{
				{
					Name:      "Paper Lantern",
					BasePrice: 900,
					Variants: []seedVariant{
						{Key: "default", Stock: 50},
					},
				},
			},
		},
	},
}

func main() {
	cfg := config.LoadConfig()
	database := db.InitDB(cfg)
	defer database.Close()

	ctx := context.Background()
	for _, fixture := range fixtures {
		if err := seedOne(ctx, database, fixture); err != nil {
			log.Fatalf("seed failed for %s: %v", fixture.Email, err)
		}
	}
	log.Println("✅ Seed data loaded.")
}

func seedOne(ctx context.Context, database *sql.DB, fixture seedAccount) error {
	hash, err := account.HashPassword(fixture.Password)
	if err != nil {
		return err
	}

	var accountID string
	err = database.QueryRowContext(ctx, `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`, fixture.Email, hash).Scan(&accountID)
	if err != nil {
		return err
	}

	for _, role := range fixture.Roles {
		_, err := database.ExecContext(ctx, `
			INSERT INTO account_roles (account_id, role)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, accountID, role)
		if err != nil {
			return err
		}
	}

	if fixture.Shop == nil {
		return nil
	}

	var shopID string
	err = database.QueryRowContext(ctx, `
		INSERT INTO shops (owner_account_id, name, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_account_id) DO UPDATE SET name = EXCLUDED.name, status = EXCLUDED.status
		RETURNING id
	`, accountID, fixture.Shop.Name, fixture.Shop.Status).Scan(&shopID)
	if err != nil {
		return err
	}

	for _, p := range fixture.Shop.Products {
		var productID string
		err := database.QueryRowContext(ctx, `
			INSERT INTO products (shop_id, name, base_price)
			VALUES ($1, $2, $3)
			RETURNING id
		`, shopID, p.Name, p.BasePrice).Scan(&productID)
		if err != nil {
			return err
		}

		for _, v := range p.Variants {
			attrs, err := json.Marshal(v.Attributes)
			if err != nil {
				return err
			}
			_, err = database.ExecContext(ctx, `
				INSERT INTO variants (product_id, variant_key, stock, price_adjustment, attributes)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (product_id, variant_key) DO UPDATE
					SET stock = EXCLUDED.stock, price_adjustment = EXCLUDED.price_adjustment
			`, productID, v.Key, v.Stock, v.PriceAdjustment, attrs)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
