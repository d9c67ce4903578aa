package service

import "context"

const chatSystemPrompt = `You are SwipeRight AI, an expert credit card advisor. Help users maximize their cashback and rewards by:

1. Recommending the best cards for specific purchases (groceries, gas, dining, etc.)
2. Explaining how to track rotating category benefits and annual limits
3. Providing strategies to optimize credit card usage
4. Answering questions about credit card features and benefits

Keep responses concise, helpful, and focused on maximizing rewards. Always consider the user's spending patterns and suggest practical advice.

Context about available cards: Chase Freedom Flex (5% rotating categories), Chase Sapphire Reserve (3% travel/dining), Amex Gold (4% dining/groceries), Citi Double Cash (2% everything), Discover it (5% rotating), and many others.`

const (
	chatUnavailableReply = "I'm experiencing technical difficulties. Please try asking your question again in a moment."
	chatEmptyReply       = "I'm sorry, I couldn't process your request. Please try again."
)

// Chat отвечает на вопрос пользователя через внешнюю языковую модель. Любой
// сбой внешнего API деградирует до фиксированного извинения, запрос при этом
// считается успешным.
func (s *Service) Chat(ctx context.Context, message string) string {
	reply, err := s.chatClient.Complete(ctx, chatSystemPrompt, message)
	if err != nil {
		return chatUnavailableReply
	}
	if reply == "" {
		return chatEmptyReply
	}
	return reply
}
