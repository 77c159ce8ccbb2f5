package tibasic

import (
	"fmt"
)

func (n NumberLiteralNode) Eval(interp *Interpreter) (Value, error) {
	return NumberValue(n.val), nil
}

func (n StringLiteralNode) Eval(interp *Interpreter) (Value, error) {
	return StringValue(n.val), nil
}

func (n VariableNode) Eval(interp *Interpreter) (Value, error) {
	return interp.env.Memory().NumberVariable(n.variable), nil
}

func (n ListVariableNode) Eval(interp *Interpreter) (Value, error) {
	return interp.env.Memory().ListVariable(n.name)
}

func (n AnsNode) Eval(interp *Interpreter) (Value, error) {
	return interp.env.Memory().LastResult(), nil
}

func (n ListLiteralNode) Eval(interp *Interpreter) (Value, error) {
	if err := checkListLength(len(n.vals)); err != nil {
		return nil, err
	}

	list := make(ListValue, len(n.vals))
	for i, node := range n.vals {
		v, err := node.Eval(interp)
		if err != nil {
			return nil, err
		}
		num, ok := v.(NumberValue)
		if !ok {
			return nil, Err{
				ErrType,
				fmt.Sprintf("list elements must be numbers, got %s %s [%s]", v.Type(), v, poss(node)),
			}
		}
		list[i] = complex128(num)
	}
	return list, nil
}

func (n UnaryExprNode) Eval(interp *Interpreter) (Value, error) {
	operand, err := n.operand.Eval(interp)
	if err != nil {
		return nil, err
	}
	v, err := interp.env.RunRegisteredCommand(operatorSymbol(n.operator), operand)
	return producing(n, v, err)
}

func (n BinaryExprNode) Eval(interp *Interpreter) (Value, error) {
	left, err := n.leftOperand.Eval(interp)
	if err != nil {
		return nil, err
	}
	right, err := n.rightOperand.Eval(interp)
	if err != nil {
		return nil, err
	}
	v, err := interp.env.RunRegisteredCommand(operatorSymbol(n.operator), left, right)
	return producing(n, v, err)
}

func (n FunctionCallNode) Eval(interp *Interpreter) (Value, error) {
	args, err := evalAll(interp, n.arguments)
	if err != nil {
		return nil, err
	}
	v, err := interp.env.RunRegisteredCommand(n.function, args...)
	return producing(n, v, err)
}

func evalAll(interp *Interpreter, nodes []Node) ([]Value, error) {
	vals := make([]Value, len(nodes))
	for i, node := range nodes {
		v, err := node.Eval(interp)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// producing rejects commands used inside an expression that yield no value.
func producing(n Node, v Value, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, Err{ErrType, fmt.Sprintf("%s does not produce a value [%s]", n, poss(n))}
	}
	return v, nil
}
