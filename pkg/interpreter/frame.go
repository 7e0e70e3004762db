package interpreter

// A call frame lives on the operand stack:
//
//	... arg1 .. argN | argc | return address | caller fp | local0 .. localM-1
//	                                            ^ fp
//
// LOAD with a negative slot reaches below the three bookkeeping cells into the
// arguments (slot -1 is argN, slot -N is arg1); a non-negative slot reaches the
// locals. STORE takes its offset inline and addresses fp-offset+1, so offset 0
// is local0 and offset -k is local k.

// call pushes argc, the return address and the caller's fp, makes the new fp
// point at the saved fp, reserves the locals and jumps to the target.
func (i *Interpreter) call() error {
	at := i.pc

	target, err := i.operand()
	if err != nil {
		return err
	}
	argc, err := i.operand()
	if err != nil {
		return err
	}
	localc, err := i.operand()
	if err != nil {
		return err
	}

	if argc < 0 {
		return outOfBounds(at + 2)
	}
	if localc < 0 {
		return outOfBounds(at + 3)
	}

	if localc >= i.stack.Cap() {
		return newFault(StackOverflow)
	}
	if err := i.need(0, 3+localc); err != nil {
		return err
	}

	// i.pc is on the last inline operand; RET resumes right after it
	for _, v := range []int{argc, i.pc, i.fp} {
		if err := i.push(v); err != nil {
			return err
		}
	}

	i.fp = i.stack.SP()
	if err := stackFault(i.stack.SetSP(i.fp + localc)); err != nil {
		return err
	}

	if i.zeroLocals {
		for addr := i.fp + 1; addr <= i.fp+localc; addr++ {
			if err := i.stack.Set(addr, 0); err != nil {
				return outOfBounds(addr)
			}
		}
	}

	i.pc = target - 1
	return nil
}

// ret discards the locals, restores fp and pc, drops the caller's arguments
// and leaves the return value on top of the caller's stack.
func (i *Interpreter) ret() error {
	retval, err := i.pop()
	if err != nil {
		return err
	}

	if err := stackFault(i.stack.SetSP(i.fp)); err != nil {
		return err
	}

	fp, err := i.pop()
	if err != nil {
		return err
	}
	retAddr, err := i.pop()
	if err != nil {
		return err
	}
	argc, err := i.pop()
	if err != nil {
		return err
	}

	if err := stackFault(i.stack.SetSP(i.stack.SP() - argc)); err != nil {
		return err
	}

	i.fp = fp
	i.pc = retAddr

	return i.push(retval)
}

// frameAddr resolves a LOAD slot to a stack index
func (i *Interpreter) frameAddr(slot int) int {
	if slot < 0 {
		return i.fp + slot - 2
	}
	return i.fp + slot + 1
}

func (i *Interpreter) load() error {
	slot, err := i.pop()
	if err != nil {
		return err
	}

	addr := i.frameAddr(slot)
	v, err := i.stack.Get(addr)
	if err != nil {
		return outOfBounds(addr)
	}
	return i.push(v)
}

func (i *Interpreter) store() error {
	offset, err := i.operand()
	if err != nil {
		return err
	}

	v, err := i.pop()
	if err != nil {
		return err
	}

	addr := i.fp - offset + 1
	if err := i.stack.Set(addr, v); err != nil {
		return outOfBounds(addr)
	}
	return nil
}
