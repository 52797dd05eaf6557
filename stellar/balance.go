package stellar

import (
	"fmt"
	"strconv"

	"github.com/sorobankit/ttlkeeper/internal/client"
	"github.com/sorobankit/ttlkeeper/internal/common"
	"github.com/sorobankit/ttlkeeper/internal/crypto"
	"github.com/sorobankit/ttlkeeper/internal/model"
)

// GetBalance gets wallet balance
func GetBalance(filePath string) (*model.BalanceResponse, error) {
	// Read address from file
	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	// Create clients
	horizonClient, err := client.NewHorizonClient(address)
	if err != nil {
		return nil, err
	}
	coingeckoClient := client.NewCoinGeckoClient()

	// Get XLM balance in stroops
	stroops, err := horizonClient.GetNativeBalanceStroops()
	if err != nil {
		return nil, err
	}

	// Convert to display string (no float precision loss)
	xlm := common.StroopsToXLM(stroops)

	// Get XLM/USD rate
	rate, err := coingeckoClient.GetXLMtoUSDrate()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	// Calculate USD (use float only for display, not for critical operations)
	xlmFloat, _ := strconv.ParseFloat(xlm, 64)
	rateFloat, _ := strconv.ParseFloat(rate, 64)
	usd := fmt.Sprintf("%.2f", xlmFloat*rateFloat)

	return &model.BalanceResponse{
		Address: address,
		XLM:     xlm,
		Rate:    rate,
		USD:     usd,
	}, nil
}
