package llm

// ExtractionPrompt is the fixed instruction sent with every document
// payload. The example output doubles as the schema contract; the three
// arrays it shows are exactly what Normalize expects back.
const ExtractionPrompt = `Extract structured invoice details in valid JSON format.

  **Strict Extraction Rules:**
- Compute fields only if they are directly not extractable from data.
- Extract **serial number, customer name, product name, quantity, unit price, tax, total amount, and date** correctly.
- Ensure ` + "`quantity`" + ` is **always an integer**.
- Extract ` + "`unit_price`" + ` as the **price per item**, not the total price.
- Compute ` + "`price_with_tax`" + ` = (` + "`unit_price`" + ` * ` + "`quantity`" + `) * (1 + ` + "`tax`" + ` / 100).
- Ensure ` + "`total_amount`" + ` = sum of all (` + "`price_with_tax`" + `).
- Extract ` + "`phone_number`" + ` in standard format (e.g., ` + "`+1XXXXXXXXXX`" + ` or ` + "`XXXXXXXXXX`" + `).
- Ensure all numbers are **floats, not strings** (remove commas from large numbers).
- Validate extracted data to prevent missing fields.
- Return valid structured JSON without extra text.
- Total purchase, amount, price etc are same things.

**Example JSON Output:**
` + "```json" + `
{
  "invoices": [
    {
      "invoice_number": "INV-123",
      "serial_number": 1,
      "customer_name": "John Doe",
      "total_amount": 12500.50,
      "tax": 5.0,
      "date": "2024-03-10",
      "products": ["PROD1", "PROD2"]
    }
  ],
  "products": [
    {
      "product_id": "PROD1",
      "product_name": "Laptop",
      "quantity": 2,
      "unit_price": 5000.00,
      "tax": 5.0,
      "price_with_tax": 10500.00
    },
    {
      "product_id": "PROD2",
      "product_name": "Mouse",
      "quantity": 1,
      "unit_price": 50.00,
      "tax": 5.0,
      "price_with_tax": 52.50
    }
  ],
  "customers": [
    {
      "customer_id": "CUST1",
      "customer_name": "John Doe",
      "phone_number": "1234567890",
      "total_purchase": 12500.50
    }
  ]
}` + "```"
