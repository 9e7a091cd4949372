package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"khata-pos/internal/ledger"
	"khata-pos/internal/models"
	"khata-pos/internal/reports"
)

// Catalog is what the assistant may read and change.
type Catalog interface {
	Products(query string, machine models.MachineType) []models.Product
	UpdatePrice(id string, field models.PriceField, value float64, user string) (models.Product, error)
	Bills() []models.Bill
	Technicians() []models.Technician
}

// AssistantUser is recorded on price logs written by the assistant.
const AssistantUser = "AI Assistant"

// maxToolRounds bounds how many tool round-trips one question may take.
const maxToolRounds = 5

// chat is the part of *genai.ChatSession the assistant uses.
type chat interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Assistant answers the owner's questions about stock, sales and Khata.
type Assistant struct {
	client  *Client
	catalog Catalog
	now     func() time.Time
}

func NewAssistant(client *Client, catalog Catalog) *Assistant {
	return &Assistant{client: client, catalog: catalog, now: time.Now}
}

var tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "check_inventory",
				Description: "Search the spare parts inventory. Use this to find ANY product details like ID, Name, Prices, Stock or Rack.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query":        {Type: genai.TypeString, Description: "Part name, brand, barcode or compatible model. Empty for everything."},
						"machine_type": {Type: genai.TypeString, Description: "AC, Fridge or Washing Machine", Enum: []string{"AC", "Fridge", "Washing Machine"}},
					},
				},
			},
			{
				Name:        "update_product_price",
				Description: "Update one price of a product using its ID",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"product_id": {Type: genai.TypeString, Description: "ID of the product"},
						"field":      {Type: genai.TypeString, Description: "Which price", Enum: []string{"Customer", "Technician", "Purchase"}},
						"new_price":  {Type: genai.TypeNumber, Description: "New price in rupees"},
					},
					Required: []string{"product_id", "new_price"},
				},
			},
			{
				Name:        "get_sales_report",
				Description: "Get total sales revenue and bill count for a date range.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
						"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
					},
					Required: []string{"start_date", "end_date"},
				},
			},
			{
				Name:        "khata_summary",
				Description: "List technicians with their Khata balance, credit limit and trust level, plus the total outstanding.",
			},
		},
	},
}

func (a *Assistant) systemPrompt() string {
	return fmt.Sprintf(`Today is %s. You are the assistant of an AC, fridge and washing machine spare parts shop.

RULES:
1. UPDATE: If the owner asks to update a product by NAME, do NOT ask for the ID. Call 'check_inventory' to find it, then call 'update_product_price'.
2. READ: For PRICE, COST, STOCK or RACK questions call 'check_inventory' and answer from the result.
3. SALES: For sales or revenue use 'get_sales_report'.
4. KHATA: For technician dues or credit use 'khata_summary'.
Amounts are in Indian rupees.`, a.now().Format("2006-01-02"))
}

// Ask runs one question through Gemini, executing tool calls until it answers.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	if !a.client.Enabled() {
		return "", ErrNoAPIKey
	}
	model := a.client.genai.GenerativeModel(a.client.model)
	model.Tools = tools
	model.SystemInstruction = genai.NewUserContent(genai.Text(a.systemPrompt()))
	return a.converse(ctx, model.StartChat(), question)
}

func (a *Assistant) converse(ctx context.Context, session chat, question string) (string, error) {
	resp, err := session.SendMessage(ctx, genai.Text(question))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return answer(resp), nil
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: a.dispatch(call)})
		}
		if resp, err = session.SendMessage(ctx, parts...); err != nil {
			return "", err
		}
	}
	return "", errors.New("assistant did not finish after several tool calls")
}

func answer(resp *genai.GenerateContentResponse) string {
	if txt := strings.TrimSpace(responseText(resp)); txt != "" {
		return txt
	}
	return "I completed the action."
}

// dispatch executes one tool call against the catalog.
func (a *Assistant) dispatch(call genai.FunctionCall) map[string]any {
	switch call.Name {
	case "check_inventory":
		return a.checkInventory(call.Args)
	case "update_product_price":
		return a.updatePrice(call.Args)
	case "get_sales_report":
		return a.salesReport(call.Args)
	case "khata_summary":
		return a.khataSummary()
	}
	return map[string]any{"error": "unknown tool " + call.Name}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func (a *Assistant) checkInventory(args map[string]any) map[string]any {
	products := a.catalog.Products(stringArg(args, "query"), models.MachineType(stringArg(args, "machine_type")))

	type simpleProduct struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Machine         string  `json:"machineType"`
		Stock           int     `json:"stock"`
		Rack            string  `json:"rack"`
		CustomerPrice   float64 `json:"customerPrice"`
		TechnicianPrice float64 `json:"technicianPrice"`
		PurchasePrice   float64 `json:"purchasePrice"`
	}
	list := make([]simpleProduct, 0, len(products))
	for _, p := range products {
		list = append(list, simpleProduct{
			ID:              p.ID,
			Name:            p.PartName,
			Machine:         string(p.MachineType),
			Stock:           p.StockQuantity,
			Rack:            p.RackLocation,
			CustomerPrice:   p.CustomerPrice,
			TechnicianPrice: p.TechnicianPrice,
			PurchasePrice:   p.PurchasePrice,
		})
	}
	return map[string]any{"inventory": list, "count": len(list)}
}

func (a *Assistant) updatePrice(args map[string]any) map[string]any {
	id := stringArg(args, "product_id")
	if id == "" {
		// the model sometimes sends numeric ids
		if n, ok := args["product_id"].(float64); ok {
			id = fmt.Sprint(int64(n))
		}
	}
	price, ok := args["new_price"].(float64)
	if !ok {
		return map[string]any{"status": "new_price must be a number"}
	}
	field := models.PriceField(stringArg(args, "field"))
	if field == "" {
		field = models.PriceCustomer
	}

	p, err := a.catalog.UpdatePrice(id, field, price, AssistantUser)
	if err != nil {
		return map[string]any{"status": err.Error()}
	}
	return map[string]any{"status": "Success", "product": p.PartName, "field": string(field), "new_price": price}
}

func (a *Assistant) salesReport(args map[string]any) map[string]any {
	period := reports.Period{Range: reports.RangeCustom, From: stringArg(args, "start_date"), To: stringArg(args, "end_date")}
	start, end, err := period.Bounds(a.now())
	if err != nil {
		return map[string]any{"error": "Dates must be in YYYY-MM-DD format."}
	}
	r := reports.Sales(a.catalog.Bills(), start, end)
	return map[string]any{"revenue": r.TotalRevenue, "sales_count": r.TotalCount}
}

func (a *Assistant) khataSummary() map[string]any {
	techs := a.catalog.Technicians()
	type row struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
		Limit   float64 `json:"limit"`
		Trust   string  `json:"trust"`
	}
	rows := make([]row, 0, len(techs))
	for _, t := range techs {
		rows = append(rows, row{Name: t.Name, Balance: t.Balance, Limit: t.Limit, Trust: string(t.TrustLevel)})
	}
	return map[string]any{"technicians": rows, "total_outstanding": ledger.Outstanding(techs)}
}

// Log records a question and its outcome.
func (a *Assistant) Log(question string, err error) {
	if a.client == nil {
		return
	}
	if err != nil {
		a.client.log.Warn("assistant failed", zap.String("question", question), zap.Error(err))
		return
	}
	a.client.log.Info("🤖 assistant answered", zap.String("question", question))
}
